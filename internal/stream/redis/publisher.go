package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PayloadField is the stream entry field holding the JSON body.
const PayloadField = "payload"

type Publisher struct {
	client StreamClient
	stream string
	logger *zerolog.Logger
}

func NewPublisher(client StreamClient, stream string, logger *zerolog.Logger) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// SaveReport appends the report to the report stream.
func (p *Publisher) SaveReport(ctx context.Context, report models.ValidationReport) error {
	id, err := Publish(ctx, p.client, p.stream, report)
	if err != nil {
		return err
	}
	p.logger.Debug().Str("stream", p.stream).Str("entry", id).Str("report", report.ID).Msg("Report published")
	return nil
}

// Publish XADDs v as JSON under PayloadField and returns the entry ID.
func Publish(ctx context.Context, client StreamClient, stream string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{PayloadField: string(payload)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", stream, err)
	}
	return id, nil
}
