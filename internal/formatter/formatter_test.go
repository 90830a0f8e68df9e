package formatter

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/models"
)

const fallbackURL = "https://www.sbimf.com"

func newTestFormatter() *Formatter {
	logger := zerolog.Nop()
	return New(fallbackURL, &logger)
}

func TestFormat_SafeURL(t *testing.T) {
	f := newTestFormatter()

	tests := []struct {
		name      string
		sourceURL string
		want      string
	}{
		{"valid url kept", "https://www.amfiindia.com", "https://www.amfiindia.com"},
		{"empty url replaced", "", fallbackURL},
		{"schemeless url replaced", "www.amfiindia.com", fallbackURL},
		{"relative path replaced", "/docs/statement", fallbackURL},
		{"garbage replaced", "://not-a-url", fallbackURL},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := f.Format("The NAV is 45.", test.sourceURL, nil, "query", "")
			if resp.SourceURL != test.want {
				t.Errorf("SourceURL = %q, want %q", resp.SourceURL, test.want)
			}
		})
	}
}

func TestFormat_NilReport(t *testing.T) {
	f := newTestFormatter()

	resp := f.Format("  The NAV is 45.  ", "https://www.sbimf.com", nil, "what is the nav", "SBI Small Cap Fund")

	if resp.Answer != "The NAV is 45." {
		t.Errorf("Answer = %q, want trimmed text", resp.Answer)
	}
	if !resp.IsValid {
		t.Errorf("nil report should format as valid")
	}
	if resp.Warnings == nil || len(resp.Warnings) != 0 {
		t.Errorf("Warnings = %v, want empty slice", resp.Warnings)
	}
	if resp.FixesApplied == nil || len(resp.FixesApplied) != 0 {
		t.Errorf("FixesApplied = %v, want empty slice", resp.FixesApplied)
	}
	if resp.Query != "what is the nav" || resp.SchemeName != "SBI Small Cap Fund" {
		t.Errorf("query fields not carried: %+v", resp)
	}
}

func TestFormat_CopiesReportFindings(t *testing.T) {
	f := newTestFormatter()

	report := models.NewValidationReport()
	report.AddWarning("Response contains advice/opinion words: good")
	report.AddFix("Removed/replaced advice words: good")

	resp := f.Format("answer", "https://www.sbimf.com", report, "q", "")

	if !resp.IsValid {
		t.Errorf("warnings alone must not invalidate the response")
	}
	if len(resp.Warnings) != 1 || len(resp.FixesApplied) != 1 {
		t.Errorf("report findings not copied: %+v", resp)
	}

	report.AddError("Response too long (5 sentences, max 3)")
	resp = f.Format("answer", "https://www.sbimf.com", report, "q", "")
	if resp.IsValid {
		t.Errorf("report error must invalidate the response")
	}
}

func TestFormatError(t *testing.T) {
	f := newTestFormatter()

	resp := f.FormatError("Response generation failed after all retries", "q", "SBI Multicap Fund")

	if resp.IsValid {
		t.Errorf("error response must be invalid")
	}
	if resp.SourceURL != fallbackURL {
		t.Errorf("SourceURL = %q, want fallback", resp.SourceURL)
	}
	if resp.Answer != "Response generation failed after all retries" {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestFormatFallback(t *testing.T) {
	f := newTestFormatter()

	resp := f.FormatFallback("what is the nav", "SBI Small Cap Fund", "")

	if !resp.IsValid {
		t.Errorf("fallback must be valid so callers never reject it")
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0] != "Fallback response used" {
		t.Errorf("Warnings = %v", resp.Warnings)
	}
	if !strings.Contains(resp.Answer, "SBI Small Cap Fund") {
		t.Errorf("fallback answer missing scheme name: %q", resp.Answer)
	}
	if !strings.Contains(resp.Answer, "Last updated from sources.") {
		t.Errorf("fallback answer missing citation: %q", resp.Answer)
	}
	if resp.SourceURL != fallbackURL {
		t.Errorf("SourceURL = %q, want fallback", resp.SourceURL)
	}
}

func TestFallbackAnswer(t *testing.T) {
	withScheme := FallbackAnswer("SBI Large Cap Fund")
	if !strings.Contains(withScheme, "about SBI Large Cap Fund") {
		t.Errorf("expected scheme mention in %q", withScheme)
	}

	without := FallbackAnswer("")
	if strings.Contains(without, "about") && strings.Contains(without, "Fund.") {
		t.Errorf("schemeless fallback mentions a scheme: %q", without)
	}
	if !strings.HasSuffix(without, "Last updated from sources.") {
		t.Errorf("fallback missing citation: %q", without)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"collapses whitespace", "The  NAV\tis\n45.", "The NAV is 45."},
		{"adds terminal punctuation", "The NAV is 45", "The NAV is 45."},
		{"keeps existing punctuation", "Is it live?", "Is it live?"},
		{"empty stays empty", "   ", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := CleanText(test.text)
			if got != test.want {
				t.Errorf("CleanText(%q) = %q, want %q", test.text, got, test.want)
			}
		})
	}
}
