package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

// AdviceDetector recognizes advice-seeking queries from the keyword table
// and a handful of question patterns. A jailbreak hit always counts as
// advice-seeking as well, so the detector escalates conservatively.
type AdviceDetector struct {
	jailbreak *JailbreakDetector
	keywords  []string
	patterns  []*regexp.Regexp
}

func NewAdviceDetector(jailbreak *JailbreakDetector, keywords []string, questionPatterns []string) (*AdviceDetector, error) {
	patterns := make([]*regexp.Regexp, 0, len(questionPatterns))
	for _, p := range questionPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile advice question pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	return &AdviceDetector{
		jailbreak: jailbreak,
		keywords:  keywords,
		patterns:  patterns,
	}, nil
}

func (d *AdviceDetector) Detect(query string) bool {
	if d.jailbreak.Detect(query) {
		return true
	}

	for _, keyword := range d.keywords {
		if strings.Contains(query, keyword) {
			return true
		}
	}

	for _, re := range d.patterns {
		if re.MatchString(query) {
			return true
		}
	}

	return false
}
