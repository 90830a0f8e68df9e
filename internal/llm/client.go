package llm

import (
	"context"

	"github.com/povarna/mf-faq-agent/internal/config"
)

// Client generates a completion for one system/user prompt pair. An empty
// string with a nil error means the model produced no usable content; the
// orchestrator maps that to its fallback path.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, params config.GenerationParams) (string, error)
}
