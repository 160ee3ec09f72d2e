package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/iris-pipeline/internal/batch"
	"github.com/povarna/iris-pipeline/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file of validation requests ('-' for stdin)")
	output := flag.String("output", "", "Output file relative path")
	format := flag.String("format", batch.FormatJSONL, "Output file format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent validation workers")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on write failures")
	dryRun := flag.Bool("dry-run", false, "Parse input without validating")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, deps.Logger)
	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	if *dryRun {
		dryRunAndExit(records)
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	// Process with worker pool
	processor := batch.NewProcessor(deps.Validator, *workers, deps.Logger)
	results := processor.Process(ctx, records)

	errorCount := 0
	for report := range results {
		if err := writer.Write(report); err != nil {
			log.Error().Err(err).Str("id", report.ID).Msg("Failed to write report")
			errorCount++

			if !*continueOnError {
				log.Error().Msg("Stopping due to write error")
				break
			}
		}
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close writer")
	}

	summary := writer.Summary()
	log.Info().
		Int("total", summary.Total).
		Int("passed", summary.Passed).
		Int("warning", summary.Warning).
		Int("failed", summary.Failed).
		Int("write_errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Batch validation complete")
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Parse error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Dry run failed")
	}

	log.Info().Msg("Dry run successful")
	os.Exit(0)
}
