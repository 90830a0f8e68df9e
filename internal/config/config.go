package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds the environment-driven runtime configuration. Rule tables
// live separately in Rules and are loaded from YAML.
type Settings struct {
	APIPort  string `env:"API_PORT" envDefault:"18080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM backend (Claude on Bedrock)
	AWSRegion     string `env:"AWS_REGION" envDefault:"us-east-1"`
	ClaudeModelID string `env:"CLAUDE_MODEL_ID"`

	// Retrieval sidecar (embedding + vector search service)
	RetrieverURL     string        `env:"RETRIEVER_URL" envDefault:"http://localhost:9091"`
	RetrieverTimeout time.Duration `env:"RETRIEVER_TIMEOUT" envDefault:"15s"`

	// Redis (response cache + query stream)
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"15m"`
	QueryStream   string        `env:"QUERY_STREAM" envDefault:"faq-queries"`
	StreamGroup   string        `env:"STREAM_GROUP" envDefault:"faq-group"`
	ConsumerName  string        `env:"HOSTNAME" envDefault:"faq-worker"`

	Generation GenerationParams `envPrefix:"LLM_"`
	Retrieval  RetrievalParams  `envPrefix:"RETRIEVAL_"`
	Validation ValidationParams `envPrefix:"VALIDATION_"`

	// Generation retry policy
	MaxRetries  int  `env:"MAX_RETRIES" envDefault:"3"`
	UseFallback bool `env:"USE_FALLBACK" envDefault:"true"`
}

type GenerationParams struct {
	Temperature     float64 `env:"TEMPERATURE" envDefault:"0.1"`
	TopP            float64 `env:"TOP_P" envDefault:"0.9"`
	MaxOutputTokens int     `env:"MAX_OUTPUT_TOKENS" envDefault:"150"`
}

type RetrievalParams struct {
	TopK             int `env:"TOP_K" envDefault:"5"`
	MaxChunks        int `env:"MAX_CHUNKS" envDefault:"3"`
	MaxContextTokens int `env:"MAX_CONTEXT_TOKENS" envDefault:"800"`
}

type ValidationParams struct {
	MaxSentences   int  `env:"MAX_SENTENCES" envDefault:"3"`
	MaxFixAttempts int  `env:"MAX_FIX_ATTEMPTS" envDefault:"1"`
	RemoveAdvice   bool `env:"REMOVE_ADVICE" envDefault:"true"`
}

func LoadSettings() (*Settings, error) {
	var cfg Settings
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings from environment: %w", err)
	}
	return &cfg, nil
}
