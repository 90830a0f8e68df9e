package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/models"
)

// Retriever fetches candidate chunks for a query. SchemeFilter narrows the
// search to one scheme's documents when set.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int, schemeFilter string, includeMetadata bool) ([]models.Chunk, error)
}

// HTTPRetriever talks to the embedding/vector-search sidecar over its REST
// API. The sidecar owns the embedding model and the vector index; this
// service only sends query text and receives scored chunks.
type HTTPRetriever struct {
	baseURL string
	client  *http.Client
	logger  *zerolog.Logger
}

type retrieveRequest struct {
	Query           string `json:"query"`
	TopK            int    `json:"top_k"`
	SchemeName      string `json:"scheme_name,omitempty"`
	IncludeMetadata bool   `json:"include_metadata"`
}

type retrieveResponse struct {
	Chunks []models.Chunk `json:"chunks"`
}

func NewHTTPRetriever(baseURL string, timeout time.Duration, logger *zerolog.Logger) *HTTPRetriever {
	return &HTTPRetriever{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, query string, topK int, schemeFilter string, includeMetadata bool) ([]models.Chunk, error) {
	payload, err := json.Marshal(retrieveRequest{
		Query:           query,
		TopK:            topK,
		SchemeName:      schemeFilter,
		IncludeMetadata: includeMetadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal retrieve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/retrieve", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build retrieve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retriever request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retriever returned status %d", resp.StatusCode)
	}

	var result retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode retriever response: %w", err)
	}

	r.logger.Info().
		Int("chunks", len(result.Chunks)).
		Str("scheme_filter", schemeFilter).
		Msg("retrieved chunks")

	return result.Chunks, nil
}
