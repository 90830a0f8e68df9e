package expander

import (
	"strings"
)

// maxSynonyms caps how many synonym phrases are appended per query.
const maxSynonyms = 2

// Expander appends intent-specific synonyms to a normalized query to
// improve embedding recall. Expansion is strictly additive: the original
// query text is never removed or reordered.
type Expander struct {
	synonyms map[string][]string
}

func New(synonyms map[string][]string) *Expander {
	return &Expander{synonyms: synonyms}
}

// Expand returns the query with up to two synonyms for the detected
// factual intent appended, skipping synonyms already present as
// substrings. With no intent, or no synonym table entry, the query is
// returned unchanged.
func (e *Expander) Expand(normalizedQuery, factualIntent string) string {
	if factualIntent == "" {
		return normalizedQuery
	}

	synonyms, ok := e.synonyms[factualIntent]
	if !ok {
		return normalizedQuery
	}

	parts := []string{normalizedQuery}
	for _, synonym := range synonyms {
		if len(parts)-1 >= maxSynonyms {
			break
		}
		if !strings.Contains(normalizedQuery, strings.ToLower(synonym)) {
			parts = append(parts, synonym)
		}
	}

	return strings.Join(parts, " ")
}
