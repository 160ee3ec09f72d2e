package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/povarna/iris-pipeline/internal/models"
	red "github.com/povarna/iris-pipeline/internal/redis"
	"github.com/povarna/iris-pipeline/internal/stream"
	streamredis "github.com/povarna/iris-pipeline/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("f", "", "CSV file to publish as a ValidationRequest")
	eventID := flag.String("id", "", "Event ID (generated when empty)")
	streamName := flag.String("stream", stream.RequestStream, "Stream name")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -f data/raw/iris.csv")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*file, *eventID, *streamName); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(file, eventID, streamName string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	ctx := context.Background()
	logger := log.Logger
	client, err := red.Connect(ctx, red.Options{
		Addr:       addr,
		Password:   os.Getenv("REDIS_PASSWORD"),
		MaxRetries: 3,
	}, &logger)
	if err != nil {
		return err
	}
	defer client.Close()

	req := models.ValidationRequest{
		EventID: eventID,
		Source:  file,
		CSV:     string(data),
	}
	id, err := streamredis.Publish(ctx, client, streamName, req)
	if err != nil {
		return err
	}

	log.Info().Str("stream", streamName).Str("id", id).Str("event_id", req.EventID).Msg("Published successfully!")
	return nil
}
