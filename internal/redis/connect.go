package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Options struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

// retryBase is the first backoff step; attempt i waits retryBase << i.
var retryBase = time.Second

// Connect pings addr until it answers or MaxRetries attempts fail. Backoff
// waits are cut short when ctx is cancelled.
func Connect(ctx context.Context, opts Options, logger *zerolog.Logger) (*redis.Client, error) {
	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range attempts {
		if i > 0 {
			backoff := retryBase << uint(i)
			logger.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")
			select {
			case <-ctx.Done():
				client.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		err = client.Ping(ctx).Err()
		if err == nil {
			logger.Info().Str("addr", opts.Addr).Int("attempts_needed", i+1).Msg("Redis connected")
			return client, nil
		}

		logger.Warn().Err(err).Int("attempt", i+1).Int("max_retries", attempts).Msg("Redis ping failed")
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts: %w", opts.Addr, attempts, err)
}
