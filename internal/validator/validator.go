package validator

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/models"
)

// Validator checks generated responses against the compliance rules and
// repairs the ones that fail. Citation and length violations are hard
// errors; advice and missing-facts findings are warnings unless strict
// mode is on.
type Validator struct {
	citationPatterns  []*regexp.Regexp
	opinionWords      []string
	opinionPatterns   []*regexp.Regexp
	adviceKeywords    []string
	factualIndicators []string
	maxSentences      int
	maxFixAttempts    int
	removeAdvice      bool
	logger            *zerolog.Logger
}

func New(rules *config.Rules, params config.ValidationParams, logger *zerolog.Logger) (*Validator, error) {
	citations := make([]*regexp.Regexp, 0, len(rules.CitationPatterns))
	for _, p := range rules.CitationPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile citation pattern %q: %w", p, err)
		}
		citations = append(citations, re)
	}

	opinions := make([]*regexp.Regexp, 0, len(rules.OpinionWords))
	for _, w := range rules.OpinionWords {
		opinions = append(opinions, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}

	return &Validator{
		citationPatterns:  citations,
		opinionWords:      rules.OpinionWords,
		opinionPatterns:   opinions,
		adviceKeywords:    rules.AdviceKeywords,
		factualIndicators: rules.FactualIndicators,
		maxSentences:      params.MaxSentences,
		maxFixAttempts:    params.MaxFixAttempts,
		removeAdvice:      params.RemoveAdvice,
		logger:            logger,
	}, nil
}

// Validate runs all four checks and collects the findings into a report.
// Strict mode escalates advice findings from warnings to errors.
func (v *Validator) Validate(response string, strict bool) *models.ValidationReport {
	report := models.NewValidationReport()

	if ok, msg := v.checkCitation(response); !ok {
		report.AddError(msg)
		v.logger.Warn().Str("error", msg).Msg("validation error")
	}

	if ok, msg, _ := v.checkNoAdvice(response); !ok {
		if strict {
			report.AddError(msg)
			v.logger.Warn().Str("error", msg).Msg("validation error")
		} else {
			report.AddWarning(msg)
		}
	}

	if ok, msg := v.checkFactsOnly(response); !ok {
		report.AddWarning(msg)
	}

	if ok, msg, _ := v.checkLength(response); !ok {
		report.AddError(msg)
		v.logger.Warn().Str("error", msg).Msg("validation error")
	}

	return report
}

// ValidateAndFix validates the response and, when it fails or carries
// warnings, runs bounded repair passes. The returned report reflects the
// final state of the (possibly repaired) response, with the accumulated
// fix log attached.
func (v *Validator) ValidateAndFix(response, sourceURL string) (string, *models.ValidationReport) {
	report := v.Validate(response, false)

	if report.IsValid && len(report.Warnings) == 0 {
		return response, report
	}

	fixed := response
	for attempt := 0; attempt < v.maxFixAttempts; attempt++ {
		var fixes []string
		fixed, fixes = v.fix(fixed, sourceURL)
		for _, f := range fixes {
			report.AddFix(f)
			v.logger.Info().Str("fix", f).Msg("fix applied")
		}

		revalidated := v.Validate(fixed, false)
		if revalidated.IsValid && len(revalidated.Warnings) == 0 {
			revalidated.FixesApplied = report.FixesApplied
			return fixed, revalidated
		}

		report.Errors = revalidated.Errors
		report.Warnings = revalidated.Warnings
		report.IsValid = revalidated.IsValid
	}

	return fixed, report
}
