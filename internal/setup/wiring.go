package setup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/cache"
	"github.com/povarna/mf-faq-agent/internal/classifier"
	"github.com/povarna/mf-faq-agent/internal/config"
	"github.com/povarna/mf-faq-agent/internal/expander"
	"github.com/povarna/mf-faq-agent/internal/formatter"
	"github.com/povarna/mf-faq-agent/internal/llm"
	"github.com/povarna/mf-faq-agent/internal/orchestrator"
	red "github.com/povarna/mf-faq-agent/internal/redis"
	"github.com/povarna/mf-faq-agent/internal/retrieval"
	"github.com/povarna/mf-faq-agent/internal/schemes"
	"github.com/povarna/mf-faq-agent/internal/validator"
)

type Dependencies struct {
	Orchestrator *orchestrator.Orchestrator
	Resolver     *schemes.Resolver
	Settings     *config.Settings
	Rules        *config.Rules
	Logger       *zerolog.Logger
}

// Wire builds the full pipeline from settings and rule tables. The cache
// is optional: when disabled (or Redis is unreachable) the pipeline runs
// without it.
func Wire(ctx context.Context, settings *config.Settings, rules *config.Rules, logger *zerolog.Logger) (*Dependencies, error) {
	cls, err := classifier.New(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	resolver, err := schemes.NewResolver(rules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheme resolver: %w", err)
	}

	val, err := validator.New(rules, settings.Validation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	llmClient, err := llm.NewBedrockClient(ctx, settings.AWSRegion, settings.ClaudeModelID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	retriever := retrieval.NewHTTPRetriever(settings.RetrieverURL, settings.RetrieverTimeout, logger)

	var responseCache orchestrator.ResponseCache
	if settings.CacheEnabled {
		client, err := red.ConnectRedis(ctx, settings.RedisAddr, settings.RedisPassword, 3)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, running without response cache")
		} else {
			responseCache = cache.New(client, settings.CacheTTL, logger)
		}
	}

	orch := orchestrator.New(orchestrator.Params{
		Classifier:   cls,
		Resolver:     resolver,
		Expander:     expander.New(rules.IntentSynonyms),
		Validator:    val,
		Formatter:    formatter.New(rules.Links.DefaultFallbackURL, logger),
		Retriever:    retriever,
		LLM:          llmClient,
		Cache:        responseCache,
		SystemPrompt: rules.SystemPrompt,
		Generation:   settings.Generation,
		Retrieval:    settings.Retrieval,
		MaxRetries:   settings.MaxRetries,
		UseFallback:  settings.UseFallback,
		Logger:       logger,
	})

	return &Dependencies{
		Orchestrator: orch,
		Resolver:     resolver,
		Settings:     settings,
		Rules:        rules,
		Logger:       logger,
	}, nil
}
