package classifier

import (
	"strings"
)

// Normalize lowercases the query, collapses runs of whitespace and trims
// the ends. Every detector operates on normalized text.
func Normalize(query string) string {
	if query == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
