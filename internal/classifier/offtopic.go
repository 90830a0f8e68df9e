package classifier

import (
	"strings"
)

// maxShortQueryWords is the length cutoff below which a query with no
// mutual-fund terms is still presumed on-topic, to avoid over-blocking
// ambiguous short questions.
const maxShortQueryWords = 3

// OffTopicDetector recognizes queries unrelated to mutual funds. Explicit
// off-topic keywords short-circuit to true; otherwise queries with any
// investment-context term are deferred to the advice detector, and only
// long queries with no fund vocabulary at all are flagged.
type OffTopicDetector struct {
	explicitKeywords []string
	investmentTerms  []string
	mfTerms          []string
}

func NewOffTopicDetector(explicitKeywords, investmentTerms, mfTerms []string) *OffTopicDetector {
	return &OffTopicDetector{
		explicitKeywords: explicitKeywords,
		investmentTerms:  investmentTerms,
		mfTerms:          mfTerms,
	}
}

func (d *OffTopicDetector) Detect(query string) bool {
	for _, keyword := range d.explicitKeywords {
		if strings.Contains(query, keyword) {
			return true
		}
	}

	if containsAny(query, d.investmentTerms) {
		return false
	}

	if !containsAny(query, d.mfTerms) && len(strings.Fields(query)) > maxShortQueryWords {
		return true
	}

	return false
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
