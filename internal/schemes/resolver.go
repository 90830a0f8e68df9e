package schemes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/models"
)

// Resolver extracts scheme names from free text and checks them against the
// static allow-list. All tables come from the rule config and are immutable
// after construction.
type Resolver struct {
	patterns  []*regexp.Regexp
	nameHints []config.NameHint
	available []string
	aliases   map[string]string
	links     config.Links
	logger    *zerolog.Logger
}

func NewResolver(rules *config.Rules, logger *zerolog.Logger) (*Resolver, error) {
	patterns := make([]*regexp.Regexp, 0, len(rules.Schemes.Patterns))
	for _, p := range rules.Schemes.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile scheme pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	return &Resolver{
		patterns:  patterns,
		nameHints: rules.Schemes.NameHints,
		available: rules.Schemes.Available,
		aliases:   rules.Schemes.Aliases,
		links:     rules.Links,
		logger:    logger,
	}, nil
}

// Resolve returns the canonical scheme name mentioned in the text, or ""
// when no scheme is mentioned. Patterns are tried in declaration order and
// the first match wins; the matched substring is then mapped to a canonical
// name via the ordered keyword hints.
func (r *Resolver) Resolve(text string) string {
	lower := strings.ToLower(text)

	for _, re := range r.patterns {
		matched := re.FindString(lower)
		if matched == "" {
			continue
		}
		for _, hint := range r.nameHints {
			if strings.Contains(matched, hint.Keyword) {
				return hint.Name
			}
		}
	}

	return ""
}

// Available returns a copy of the scheme allow-list.
func (r *Resolver) Available() []string {
	out := make([]string, len(r.available))
	copy(out, r.available)
	return out
}

// IsAvailable checks the resolved scheme against the allow-list. An empty
// scheme name always passes: queries with no scheme proceed normally. When
// the scheme is unknown the second return value carries the canned response
// enumerating the supported schemes.
func (r *Resolver) IsAvailable(schemeName string) (bool, *models.CannedResponse) {
	if schemeName == "" {
		return true, nil
	}

	canonical := schemeName
	if alias, ok := r.aliases[schemeName]; ok {
		canonical = alias
	}

	for _, name := range r.available {
		if name == canonical {
			return true, nil
		}
	}

	r.logger.Info().Str("scheme", schemeName).Msg("scheme not in allow-list")

	return false, &models.CannedResponse{
		Answer: fmt.Sprintf(
			"I don't have information about %s in my database. "+
				"I can only provide factual information about the following SBI Mutual Fund schemes: %s. "+
				"Please visit the official SBI Mutual Fund website for information about other schemes.",
			schemeName, strings.Join(r.available, ", ")),
		SourceURL:          r.links.FundHouse,
		SchemeNotAvailable: true,
		RequestedScheme:    schemeName,
	}
}
