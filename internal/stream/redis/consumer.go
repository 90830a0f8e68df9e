package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/models"
	"github.com/povarna/mf-faq-agent/internal/orchestrator"
)

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	orchestrator *orchestrator.Orchestrator
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, orch *orchestrator.Orchestrator, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		orchestrator: orch,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var askRequest models.AskRequest
	if err := json.Unmarshal([]byte(payload), &askRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}

	response := c.orchestrator.Process(ctx, askRequest.Query)

	c.logger.Info().
		Str("id", msg.ID).
		Str("query_id", askRequest.QueryID).
		Bool("is_valid", response.IsValid).
		Str("scheme", response.SchemeName).
		Msg("Query processed")

	c.publishResult(ctx, askRequest.QueryID, response)
	c.ack(ctx, msg.ID)
}

// publishResult writes the answer to the per-query result stream so the
// producer side can collect it.
func (c *Consumer) publishResult(ctx context.Context, queryID string, response models.FormattedResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		c.logger.Error().Err(err).Str("query_id", queryID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream + ":results",
		Values: map[string]any{
			"query_id": queryID,
			"payload":  string(data),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("query_id", queryID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
