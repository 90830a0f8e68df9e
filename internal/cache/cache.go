package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/models"
)

const keyPrefix = "faq:response:"

// ResponseCache stores formatted responses keyed by the normalized query.
// Identical questions from different users skip the whole pipeline while
// the entry is fresh. Cache failures are logged and swallowed: a broken
// Redis never blocks answering.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached response for the normalized query, or (nil, nil)
// on a miss.
func (c *ResponseCache) Get(ctx context.Context, normalizedQuery string) (*models.FormattedResponse, error) {
	data, err := c.client.Get(ctx, keyPrefix+normalizedQuery).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache read failed: %w", err)
	}

	var resp models.FormattedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// Corrupt entry, treat as a miss and let it expire.
		c.logger.Warn().Err(err).Str("query", normalizedQuery).Msg("failed to decode cached response")
		return nil, nil
	}

	return &resp, nil
}

// Set stores the response under the normalized query with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, normalizedQuery string, resp models.FormattedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response for cache: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+normalizedQuery, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}

	return nil
}
