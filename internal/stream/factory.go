package stream

import (
	"context"
	"fmt"

	red "github.com/povarna/iris-pipeline/internal/redis"
	"github.com/povarna/iris-pipeline/internal/stream/redis"
	"github.com/rs/zerolog"
)

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	validator redis.RequestValidator,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := red.Connect(ctx, red.Options{
			Addr:       cfg.RedisConfig.RedisAddr,
			Password:   cfg.RedisConfig.RedisPassword,
			MaxRetries: 5,
		}, logger)
		if err != nil {
			return nil, err
		}

		publisher := redis.NewPublisher(client, cfg.RedisConfig.ReportStream, logger)
		consumer := redis.NewConsumer(client, cfg.RedisConfig, validator, publisher, logger)
		consumer.OnStop(client.Close)
		return consumer, nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
