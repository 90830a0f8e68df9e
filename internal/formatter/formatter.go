package formatter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/models"
)

// Formatter produces the standardized response structure the API and the
// stream worker return. Every response leaves here with a usable source
// URL: unparseable or schemeless URLs are swapped for the fallback link.
type Formatter struct {
	fallbackURL string
	logger      *zerolog.Logger
}

func New(fallbackURL string, logger *zerolog.Logger) *Formatter {
	return &Formatter{fallbackURL: fallbackURL, logger: logger}
}

// Format assembles the final response. A nil report is treated as valid
// with no findings.
func (f *Formatter) Format(answer, sourceURL string, report *models.ValidationReport, query, schemeName string) models.FormattedResponse {
	resp := models.FormattedResponse{
		Answer:       strings.TrimSpace(answer),
		SourceURL:    f.safeURL(sourceURL),
		IsValid:      true,
		Warnings:     []string{},
		FixesApplied: []string{},
		Query:        query,
		SchemeName:   schemeName,
	}

	if report != nil {
		resp.IsValid = report.IsValid
		if report.Warnings != nil {
			resp.Warnings = report.Warnings
		}
		if report.FixesApplied != nil {
			resp.FixesApplied = report.FixesApplied
		}
	}

	return resp
}

// FormatError wraps an error message as an invalid response on the
// fallback URL.
func (f *Formatter) FormatError(errorMessage, query, schemeName string) models.FormattedResponse {
	report := models.NewValidationReport()
	report.AddError(errorMessage)
	return f.Format(errorMessage, f.fallbackURL, report, query, schemeName)
}

// FormatFallback builds the apology response used when generation fails
// for good. It is marked valid so the caller never rejects it, with a
// warning recording that the fallback path fired.
func (f *Formatter) FormatFallback(query, schemeName, sourceURL string) models.FormattedResponse {
	report := models.NewValidationReport()
	report.AddWarning("Fallback response used")
	return f.Format(FallbackAnswer(schemeName), sourceURL, report, query, schemeName)
}

// FallbackAnswer is the canned apology text. It carries its own citation
// so it always passes validation.
func FallbackAnswer(schemeName string) string {
	if schemeName != "" {
		return fmt.Sprintf(
			"I apologize, but I'm unable to generate a response for your query about %s. "+
				"Please visit the official SBI Mutual Fund website for detailed information about this scheme. "+
				"Last updated from sources.", schemeName)
	}
	return "I apologize, but I'm unable to generate a response for your query. " +
		"Please visit the official SBI Mutual Fund website for more information. " +
		"Last updated from sources."
}

func (f *Formatter) safeURL(sourceURL string) string {
	if sourceURL == "" {
		return f.fallbackURL
	}

	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		f.logger.Warn().Str("url", sourceURL).Msg("invalid source URL, using fallback")
		return f.fallbackURL
	}

	return sourceURL
}

// CleanText collapses whitespace and guarantees terminal punctuation.
func CleanText(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return ""
	}
	if !strings.ContainsRune(".!?", rune(cleaned[len(cleaned)-1])) {
		cleaned += "."
	}
	return cleaned
}
