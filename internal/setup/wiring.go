package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/povarna/iris-pipeline/internal/config"
	"github.com/povarna/iris-pipeline/internal/database"
	red "github.com/povarna/iris-pipeline/internal/redis"
	"github.com/povarna/iris-pipeline/internal/stream"
	streamredis "github.com/povarna/iris-pipeline/internal/stream/redis"
	"github.com/povarna/iris-pipeline/internal/validator"
	"github.com/rs/zerolog"
)

type Config struct {
	LogLevel             string
	ValidationConfigPath string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	APIPort              string
	Hostname             string
}

type Dependencies struct {
	Validator *validator.Validator
	// Store is nil when DATABASE_URL is not set.
	Store   *database.DB
	Logger  *zerolog.Logger
	cleanup []func()
}

// Close releases every connection opened by Wire.
func (d *Dependencies) Close() {
	for i := len(d.cleanup) - 1; i >= 0; i-- {
		d.cleanup[i]()
	}
}

func LoadConfig() *Config {
	return &Config{
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ValidationConfigPath: getEnv("VALIDATION_CONFIG_PATH", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		APIPort:              getEnv("IRIS_API_PORT", "18081"),
		Hostname:             getEnv("HOSTNAME", "iris-validator"),
	}
}

// WithoutReportStream returns a copy of c that leaves the report stream
// unwired. The stream consumer publishes reports itself.
func (c *Config) WithoutReportStream() *Config {
	out := *c
	out.RedisAddr = ""
	out.RedisPassword = ""
	return &out
}

// Wire builds the validator and its optional report sinks. Postgres is used
// when DatabaseURL is set and reports are published to the report stream
// when RedisAddr is set.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	thresholds, err := config.LoadValidationConfigFile(cfg.ValidationConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load validation config: %w", err)
	}

	deps := &Dependencies{Logger: logger}
	var sinks []validator.ReportSink

	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		deps.cleanup = append(deps.cleanup, db.Close)

		if err := db.Migrate(ctx); err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		deps.Store = db
		sinks = append(sinks, db)
		logger.Info().Msg("Report store enabled")
	}

	if cfg.RedisAddr != "" {
		client, err := red.Connect(ctx, red.Options{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			MaxRetries: 5,
		}, logger)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.cleanup = append(deps.cleanup, func() { client.Close() })
		sinks = append(sinks, streamredis.NewPublisher(client, stream.ReportStream, logger))
		logger.Info().Str("stream", stream.ReportStream).Msg("Report stream enabled")
	}

	deps.Validator = validator.NewDefault(thresholds, logger, sinks...)
	return deps, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
