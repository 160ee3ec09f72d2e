package cli

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/download"
	"github.com/povarna/iris-pipeline/internal/eda"
	"github.com/povarna/iris-pipeline/internal/model"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/povarna/iris-pipeline/internal/schema"
	"github.com/rs/zerolog"
)

type DataValidator interface {
	Validate(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, models.ValidationReport, error)
}

// Download saves the raw dataset from url without checking it.
func Download(ctx context.Context, f *download.Fetcher, url, output string, logger *zerolog.Logger) error {
	logger.Info().Str("url", url).Msg("Downloading Iris dataset...")
	df, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}

	if err := dataset.WriteFile(df, output); err != nil {
		return err
	}
	logger.Info().Str("path", output).Int("rows", df.Nrow()).Msg("Raw dataset saved")
	return nil
}

// DownloadValidate fetches url, validates it and saves the cleaned frame.
func DownloadValidate(ctx context.Context, f *download.Fetcher, v DataValidator, url, output string, logger *zerolog.Logger) error {
	logger.Info().Str("url", url).Msg("Downloading Iris dataset...")
	df, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}

	logger.Info().Msg("Running validation checks...")
	clean, _, err := v.Validate(ctx, df)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := dataset.WriteFile(clean, output); err != nil {
		return err
	}
	logger.Info().Str("path", output).Int("rows", clean.Nrow()).Msg("Validated dataset saved")
	return nil
}

// Process strips whitespace from the column names of input.
func Process(input, output string, logger *zerolog.Logger) error {
	logger.Info().Str("path", input).Msg("Loading validated data...")
	df, err := dataset.LoadFile(input)
	if err != nil {
		return err
	}

	if err := dataset.WriteFile(dataset.StripColumnWhitespace(df), output); err != nil {
		return err
	}
	logger.Info().Str("path", output).Msg("Processed dataset saved")
	return nil
}

// Clean validates input, normalises column names and saves the result.
func Clean(ctx context.Context, v DataValidator, input, output string, logger *zerolog.Logger) error {
	logger.Info().Str("path", input).Msg("Loading raw data...")
	df, err := dataset.LoadFile(input)
	if err != nil {
		return err
	}

	logger.Info().Msg("Running validation and cleaning...")
	clean, report, err := v.Validate(ctx, df)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := dataset.WriteFile(dataset.StripColumnWhitespace(clean), output); err != nil {
		return err
	}
	logger.Info().
		Str("path", output).
		Int("rows", report.RowsOut).
		Int("duplicates_removed", report.DuplicatesRemoved).
		Int("unknown_removed", report.UnknownRemoved).
		Msg("Cleaned dataset saved")
	return nil
}

// EDA renders the scatter, boxplot and correlation figures for input.
func EDA(input, outputDir string, logger *zerolog.Logger) error {
	df, err := loadTyped(input)
	if err != nil {
		return err
	}
	return eda.NewRenderer(schema.Species, logger).Render(df, schema.PetalLength, schema.PetalWidth, outputDir)
}

// Model trains and evaluates the classifier on input and writes the
// artifacts into outputDir.
func Model(ctx context.Context, input, outputDir string, logger *zerolog.Logger) error {
	df, err := loadTyped(input)
	if err != nil {
		return err
	}

	summary, err := model.NewTrainer(logger).Run(ctx, df, outputDir)
	if err != nil {
		return err
	}
	logger.Info().
		Float64("train_accuracy", summary.TrainAccuracy).
		Float64("test_accuracy", summary.TestAccuracy).
		Msg("Training complete")
	return nil
}

// loadTyped reads a cleaned file and coerces it to the schema types.
func loadTyped(path string) (dataframe.DataFrame, error) {
	df, err := dataset.LoadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	typed, err := schema.Check(df)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s does not match the schema: %w", path, err)
	}
	return typed, nil
}
