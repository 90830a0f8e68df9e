package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// adviceReplacements soften advice vocabulary into neutral phrasing. Applied
// case-insensitively on word boundaries.
var adviceReplacements = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bshould\b`), "can"},
	{regexp.MustCompile(`(?i)\brecommend\b`), "provide information about"},
	{regexp.MustCompile(`(?i)\bsuggest\b`), "provide information about"},
	{regexp.MustCompile(`(?i)\bgood\b`), "suitable"},
	{regexp.MustCompile(`(?i)\bbad\b`), "not suitable"},
	{regexp.MustCompile(`(?i)\bbest\b`), "one option"},
	{regexp.MustCompile(`(?i)\bworst\b`), "another option"},
}

var sentenceBoundary = regexp.MustCompile(`([.!?]+)`)

var punctuationOnly = regexp.MustCompile(`^[.!?]+$`)

var terminalPunctuation = regexp.MustCompile(`[.!?]$`)

const adviceDisclaimer = " Note: This is factual information only, not personalized guidance."

// fixCitation appends the canonical citation when no citation phrase is
// present. Trailing punctuation is stripped first so the appended sentence
// reads cleanly.
func (v *Validator) fixCitation(response, sourceURL string) string {
	lower := strings.ToLower(response)
	for _, re := range v.citationPatterns {
		if re.MatchString(lower) {
			return response
		}
	}

	citation := " Last updated from sources."
	if sourceURL != "" {
		citation = fmt.Sprintf(" Last updated from sources. For more information, visit %s.", sourceURL)
	}

	return strings.TrimRight(response, ".!?") + citation
}

// fixAdviceWords rewrites advice vocabulary into neutral phrasing. Detected
// words that survive the rewrite (multi-word advice phrases have no
// replacement entry) get a trailing disclaimer instead.
func fixAdviceWords(response string, detected []string) string {
	fixed := response
	for _, r := range adviceReplacements {
		fixed = r.pattern.ReplaceAllString(fixed, r.replacement)
	}

	lower := strings.ToLower(fixed)
	for _, word := range detected {
		if strings.Contains(lower, strings.ToLower(word)) {
			if !strings.HasSuffix(fixed, ".") {
				fixed += "."
			}
			return fixed + adviceDisclaimer
		}
	}

	return fixed
}

// truncateSentences keeps the first maxSentences sentences, preserving the
// original terminal punctuation of each kept sentence.
func truncateSentences(response string, maxSentences int) string {
	parts := sentenceBoundary.Split(response, -1)
	marks := sentenceBoundary.FindAllString(response, -1)

	var b strings.Builder
	kept := 0
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if kept >= maxSentences {
			break
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(trimmed)
		if i < len(marks) {
			b.WriteString(marks[i])
		}
		kept++
	}

	truncated := b.String()
	if !terminalPunctuation.MatchString(truncated) {
		truncated += "."
	}

	return truncated
}

// fix applies the repair pipeline in order: citation, advice rewrite,
// truncation. Returns the repaired text and the human-readable fix log.
func (v *Validator) fix(response, sourceURL string) (string, []string) {
	var fixes []string
	fixed := response

	if ok, _ := v.checkCitation(fixed); !ok {
		fixed = v.fixCitation(fixed, sourceURL)
		fixes = append(fixes, "Added source citation")
	}

	if v.removeAdvice {
		if ok, _, detected := v.checkNoAdvice(fixed); !ok {
			fixed = fixAdviceWords(fixed, detected)
			if len(detected) > 3 {
				detected = detected[:3]
			}
			fixes = append(fixes, fmt.Sprintf("Removed/replaced advice words: %s", strings.Join(detected, ", ")))
		}
	}

	if ok, _, count := v.checkLength(fixed); !ok {
		fixed = truncateSentences(fixed, v.maxSentences)
		fixes = append(fixes, fmt.Sprintf("Truncated from %d to %d sentences", count, v.maxSentences))
	}

	return fixed, fixes
}
