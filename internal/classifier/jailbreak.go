package classifier

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/povarna/mf-faq-agent/internal/config"
)

// specialCharRatioLimit flags queries where more than half the characters
// are neither alphanumeric nor common punctuation, a heuristic for encoded
// payloads.
const specialCharRatioLimit = 0.5

// minDistinctChars guards the excessive-repetition pattern: legitimately
// repetitive text has more than a couple of distinct characters.
const minDistinctChars = 3

type jailbreakPattern struct {
	re                   *regexp.Regexp
	requiresLowDiversity bool
}

// JailbreakDetector recognizes instruction-override, role-play, injection
// and encoding tricks from a fixed pattern table.
type JailbreakDetector struct {
	patterns []jailbreakPattern
}

func NewJailbreakDetector(rules []config.JailbreakRule) (*JailbreakDetector, error) {
	patterns := make([]jailbreakPattern, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jailbreak pattern %q: %w", rule.Pattern, err)
		}
		patterns = append(patterns, jailbreakPattern{re: re, requiresLowDiversity: rule.RequiresLowDiversity})
	}
	return &JailbreakDetector{patterns: patterns}, nil
}

// Detect reports whether the normalized query looks like a jailbreak
// attempt.
func (d *JailbreakDetector) Detect(query string) bool {
	for _, p := range d.patterns {
		if !p.re.MatchString(query) {
			continue
		}
		if p.requiresLowDiversity && distinctChars(query) >= minDistinctChars {
			continue
		}
		return true
	}

	return specialCharRatio(query) > specialCharRatioLimit
}

func distinctChars(s string) int {
	seen := map[rune]struct{}{}
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func specialCharRatio(s string) float64 {
	if s == "" {
		return 0
	}

	total := 0
	special := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '.', ',', '?', '!', '-', '(', ')', '%':
			continue
		}
		special++
	}

	return float64(special) / float64(total)
}
