package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/config"
)

const anthropicVersion = "bedrock-2023-05-31"

// transientRetries covers throttling and transient network failures on the
// Bedrock endpoint. Non-retryable errors surface after the first attempt
// anyway because retry-go returns the last error.
const transientRetries = 3

// BedrockClient generates completions through the Claude messages API on
// Amazon Bedrock.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
	logger  *zerolog.Logger
}

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"top_p"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func NewBedrockClient(ctx context.Context, region, modelID string, logger *zerolog.Logger) (*BedrockClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		logger:  logger,
	}, nil
}

func (c *BedrockClient) Complete(ctx context.Context, systemPrompt, userPrompt string, params config.GenerationParams) (string, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        params.MaxOutputTokens,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		System:           systemPrompt,
		Messages: []claudeMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("unable to serialize claude request: %w", err)
	}

	var output *bedrockruntime.InvokeModelOutput
	err = retry.Do(
		func() error {
			var invokeErr error
			output, invokeErr = c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
				ModelId:     aws.String(c.modelID),
				Body:        body,
				Accept:      aws.String("application/json"),
				ContentType: aws.String("application/json"),
			})
			return invokeErr
		},
		retry.Context(ctx),
		retry.Attempts(transientRetries),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn().Uint("attempt", n+1).Err(err).Msg("bedrock invocation retry")
		}),
	)
	if err != nil {
		return "", fmt.Errorf("unable to invoke claude model: %w", err)
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var content string
	if len(response.Content) > 0 {
		content = response.Content[0].Text
	}

	c.logger.Debug().
		Str("stop_reason", response.StopReason).
		Int("response_chars", len(content)).
		Msg("claude completion received")

	return content, nil
}
