package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RequestValidator validates one request.
type RequestValidator interface {
	ValidateRequest(ctx context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error)
}

// ReportPublisher forwards finished reports.
type ReportPublisher interface {
	SaveReport(ctx context.Context, report models.ValidationReport) error
}

type Consumer struct {
	client       StreamClient
	stream       string
	groupID      string
	consumerName string
	validator    RequestValidator
	publisher    ReportPublisher
	onStop       func() error
	logger       *zerolog.Logger
}

func NewConsumer(client StreamClient, cfg *RedisStreamConfig, validator RequestValidator, publisher ReportPublisher, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.RequestStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		validator:    validator,
		publisher:    publisher,
		logger:       logger,
	}
}

// OnStop registers fn to be called by Stop, typically closing the client.
func (c *Consumer) OnStop(fn func() error) {
	c.onStop = fn
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
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

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	if c.onStop == nil {
		return nil
	}
	return c.onStop()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")
	defer c.ack(ctx, msg.ID)

	payload, ok := msg.Values[PayloadField].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		return
	}

	var req models.ValidationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		return
	}
	if req.EventID == "" {
		req.EventID = msg.ID
	}

	_, report, err := c.validator.ValidateRequest(ctx, req)
	event := c.logger.Info()
	if err != nil {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("id", msg.ID).
		Str("event_id", req.EventID).
		Str("status", string(report.Status)).
		Msg("Validation complete")

	if c.publisher == nil {
		return
	}
	if err := c.publisher.SaveReport(ctx, report); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish report")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
