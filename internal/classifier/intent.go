package classifier

import (
	"strings"

	"github.com/povarna/mf-faq-agent/internal/config"
)

// IntentDetector maps a query to one of the named factual intents. Intents
// are tried in table-declaration order and the first keyword hit wins.
type IntentDetector struct {
	intents []config.IntentRule
}

func NewIntentDetector(intents []config.IntentRule) *IntentDetector {
	return &IntentDetector{intents: intents}
}

// Detect returns the matched intent name, or "" when no intent matches.
func (d *IntentDetector) Detect(query string) string {
	for _, intent := range d.intents {
		for _, keyword := range intent.Keywords {
			if strings.Contains(query, strings.ToLower(keyword)) {
				return intent.Name
			}
		}
	}
	return ""
}
