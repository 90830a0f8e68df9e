package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// urlPattern detects a bare source URL in a response, which counts as a
// citation even without the canonical closing phrase.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+[^\s<>"{}|\\^` + "`" + `\[\].,;:!?]`)

var digitPattern = regexp.MustCompile(`\d+`)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// checkCitation reports whether the response carries a source citation,
// either one of the citation phrases or an inline URL.
func (v *Validator) checkCitation(response string) (bool, string) {
	lower := strings.ToLower(response)

	for _, re := range v.citationPatterns {
		if re.MatchString(lower) {
			return true, ""
		}
	}

	if urlPattern.MatchString(response) {
		return true, ""
	}

	return false, "Response missing source citation (should end with 'Last updated from sources.')"
}

// checkNoAdvice scans the response for advice keywords and word-bounded
// opinion words. The detected words are returned for the repair pass.
func (v *Validator) checkNoAdvice(response string) (bool, string, []string) {
	lower := strings.ToLower(response)
	var detected []string

	for _, keyword := range v.adviceKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			detected = append(detected, keyword)
		}
	}

	for i, word := range v.opinionWords {
		if v.opinionPatterns[i].MatchString(lower) {
			detected = append(detected, word)
		}
	}

	if len(detected) > 0 {
		return false, fmt.Sprintf("Response contains advice/opinion words: %s", strings.Join(detected, ", ")), detected
	}

	return true, "", nil
}

// checkFactsOnly reports whether the response carries at least one factual
// indicator term or a number.
func (v *Validator) checkFactsOnly(response string) (bool, string) {
	lower := strings.ToLower(response)

	for _, indicator := range v.factualIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			return true, ""
		}
	}

	if digitPattern.MatchString(response) {
		return true, ""
	}

	return false, "Response lacks factual indicators (numbers, percentages, factual terms)"
}

// checkLength reports whether the response stays within the sentence limit.
func (v *Validator) checkLength(response string) (bool, string, int) {
	count := countSentences(response)

	if count > v.maxSentences {
		return false, fmt.Sprintf("Response too long (%d sentences, max %d)", count, v.maxSentences), count
	}

	return true, "", count
}

func countSentences(text string) int {
	count := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}
