package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/classifier"
	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/expander"
	"github.com/povarna/mf-faq-agent/internal/formatter"
	"github.com/povarna/mf-faq-agent/internal/llm"
	"github.com/povarna/mf-faq-agent/internal/models"
	"github.com/povarna/mf-faq-agent/internal/retrieval"
	"github.com/povarna/mf-faq-agent/internal/schemes"
	"github.com/povarna/mf-faq-agent/internal/validator"
)

// ResponseCache caches formatted responses keyed by the normalized query.
// A nil cache disables caching.
type ResponseCache interface {
	Get(ctx context.Context, normalizedQuery string) (*models.FormattedResponse, error)
	Set(ctx context.Context, normalizedQuery string, resp models.FormattedResponse) error
}

// fixableErrors are validation failures the repair engine can address, so
// a retry with feedback is worth attempting.
var fixableErrors = []string{
	"Response missing source citation",
	"Response too long",
	"Response contains advice/opinion words",
}

// Orchestrator drives a query through the full pipeline: classification,
// scheme resolution, expansion, retrieval, generation and validation. It
// always produces a response; when every stage fails the caller still gets
// the fallback text.
type Orchestrator struct {
	classifier *classifier.Classifier
	resolver   *schemes.Resolver
	expander   *expander.Expander
	validator  *validator.Validator
	formatter  *formatter.Formatter
	retriever  retrieval.Retriever
	llm        llm.Client
	cache      ResponseCache

	systemPrompt string
	generation   config.GenerationParams
	retrievalCfg config.RetrievalParams
	maxRetries   int
	useFallback  bool
	logger       *zerolog.Logger
}

type Params struct {
	Classifier *classifier.Classifier
	Resolver   *schemes.Resolver
	Expander   *expander.Expander
	Validator  *validator.Validator
	Formatter  *formatter.Formatter
	Retriever  retrieval.Retriever
	LLM        llm.Client
	Cache      ResponseCache

	SystemPrompt string
	Generation   config.GenerationParams
	Retrieval    config.RetrievalParams
	MaxRetries   int
	UseFallback  bool
	Logger       *zerolog.Logger
}

func New(p Params) *Orchestrator {
	return &Orchestrator{
		classifier:   p.Classifier,
		resolver:     p.Resolver,
		expander:     p.Expander,
		validator:    p.Validator,
		formatter:    p.Formatter,
		retriever:    p.Retriever,
		llm:          p.LLM,
		cache:        p.Cache,
		systemPrompt: p.SystemPrompt,
		generation:   p.Generation,
		retrievalCfg: p.Retrieval,
		maxRetries:   p.MaxRetries,
		useFallback:  p.UseFallback,
		logger:       p.Logger,
	}
}

// Process answers one user query end to end.
func (o *Orchestrator) Process(ctx context.Context, rawQuery string) models.FormattedResponse {
	normalized := classifier.Normalize(rawQuery)

	if o.cache != nil && normalized != "" {
		if cached, err := o.cache.Get(ctx, normalized); err != nil {
			o.logger.Warn().Err(err).Msg("cache lookup failed")
		} else if cached != nil {
			o.logger.Info().Str("query", normalized).Msg("cache hit")
			return *cached
		}
	}

	resp := o.process(ctx, rawQuery, normalized)

	// Only clean, validated answers are worth caching. Fallbacks and
	// invalid responses should be recomputed next time.
	if o.cache != nil && normalized != "" && resp.IsValid && len(resp.Warnings) == 0 {
		if err := o.cache.Set(ctx, normalized, resp); err != nil {
			o.logger.Warn().Err(err).Msg("cache write failed")
		}
	}

	return resp
}

func (o *Orchestrator) process(ctx context.Context, rawQuery, normalized string) models.FormattedResponse {
	schemeName := o.resolver.Resolve(rawQuery)

	class, canned := o.classifier.Classify(rawQuery)

	// The allow-list gate applies only to factual queries: blocked queries
	// already carry their canned response.
	if class == models.ClassificationFactual && schemeName != "" {
		if available, schemeResp := o.resolver.IsAvailable(schemeName); !available {
			class = models.ClassificationSchemeNotAvailable
			canned = schemeResp
		}
	}

	if canned != nil {
		o.logger.Info().
			Str("classification", string(class)).
			Str("scheme", schemeName).
			Msg("query answered with canned response")
		return o.formatter.Format(canned.Answer, canned.SourceURL, nil, rawQuery, schemeName)
	}

	expanded := normalized
	if intent := o.classifier.Intent(normalized); intent != "" {
		expanded = o.expander.Expand(normalized, intent)
	}

	chunks, err := o.retriever.Retrieve(ctx, expanded, o.retrievalCfg.TopK, schemeName, true)
	if err != nil {
		o.logger.Error().Err(err).Msg("retrieval failed")
		return o.formatter.FormatFallback(rawQuery, schemeName, "")
	}
	if len(chunks) == 0 {
		o.logger.Warn().Str("query", expanded).Msg("no chunks retrieved")
		return o.formatter.FormatFallback(rawQuery, schemeName, "")
	}

	chunks = retrieval.Rerank(chunks, expanded)
	promptCtx := retrieval.PrepareContext(chunks, o.retrievalCfg.MaxChunks, o.retrievalCfg.MaxContextTokens)

	primaryURL := ""
	if len(promptCtx.SourceURLs) > 0 {
		primaryURL = promptCtx.SourceURLs[0]
	}

	userPrompt := formatUserPrompt(promptCtx.Text, rawQuery)

	answer, report := o.generateValidated(ctx, userPrompt, primaryURL, schemeName)

	return o.formatter.Format(answer, primaryURL, report, rawQuery, schemeName)
}

// generateValidated runs the generate / validate+fix / retry loop. Repaired
// responses that still fail validation feed back into the prompt so the
// model can improve on them. The loop never returns an empty answer while
// fallback is enabled.
func (o *Orchestrator) generateValidated(ctx context.Context, userPrompt, sourceURL, schemeName string) (string, *models.ValidationReport) {
	var lastReport *models.ValidationReport
	var lastFixed string

	for attempt := 1; attempt <= o.maxRetries; attempt++ {
		o.logger.Info().Int("attempt", attempt).Int("max_retries", o.maxRetries).Msg("generating validated response")

		raw, err := o.llm.Complete(ctx, o.systemPrompt, userPrompt, o.generation)
		if err != nil || strings.TrimSpace(raw) == "" {
			o.logger.Warn().Err(err).Int("attempt", attempt).Msg("response generation failed")
			if attempt < o.maxRetries {
				continue
			}
			if o.useFallback {
				report := models.NewValidationReport()
				report.AddWarning("Used fallback response after all retries failed")
				return formatter.FallbackAnswer(schemeName), report
			}
			report := models.NewValidationReport()
			report.AddError("Response generation failed after all retries")
			return "", report
		}

		fixed, report := o.validator.ValidateAndFix(raw, sourceURL)
		lastFixed = fixed
		lastReport = report

		if report.IsValid {
			if len(report.FixesApplied) > 0 {
				o.logger.Info().Strs("fixes", report.FixesApplied).Msg("response validated with fixes applied")
			}
			return fixed, report
		}

		if hasFixableErrors(report.Errors) && len(report.FixesApplied) > 0 && attempt < o.maxRetries {
			o.logger.Warn().Strs("errors", report.Errors).Msg("validation failed after fixes, retrying with feedback")
			userPrompt = fmt.Sprintf("%s\n\nPrevious response that needs improvement: %s", userPrompt, fixed)
			continue
		}

		if attempt < o.maxRetries {
			o.logger.Warn().Strs("errors", report.Errors).Msg("validation failed, retrying")
		}
	}

	if lastFixed != "" {
		o.logger.Info().Msg("returning repaired response despite validation failures")
		return lastFixed, lastReport
	}

	if o.useFallback {
		o.logger.Warn().Msg("using fallback response as last resort")
		if lastReport == nil {
			lastReport = models.NewValidationReport()
		}
		lastReport.AddWarning("Used fallback response as last resort")
		return formatter.FallbackAnswer(schemeName), lastReport
	}

	if lastReport == nil {
		lastReport = models.NewValidationReport()
		lastReport.AddError("Response generation and validation failed after all retries")
	}
	return "", lastReport
}

func formatUserPrompt(context, query string) string {
	return fmt.Sprintf("Context:\n%s\n\nUser Query: %s\n\n"+
		"Based on the context above, provide a factual answer to the user's query. "+
		"Follow all the rules in the system prompt.", context, query)
}

func hasFixableErrors(errors []string) bool {
	for _, e := range errors {
		for _, fixable := range fixableErrors {
			if strings.Contains(e, fixable) {
				return true
			}
		}
	}
	return false
}
