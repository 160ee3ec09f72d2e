package cli

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/povarna/iris-pipeline/internal/download"
	"github.com/povarna/iris-pipeline/internal/setup"
	"github.com/povarna/iris-pipeline/internal/setup/logger"
	"github.com/povarna/iris-pipeline/internal/watch"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    *setup.Config
	logger zerolog.Logger
}

// NewRootCommand builds the iris command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "iris",
		Short:         "Download, validate, explore and model the Iris dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			a.cfg = setup.LoadConfig()
			a.logger = logger.NewConsole(a.cfg.LogLevel)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(
		a.downloadCmd(),
		a.downloadValidateCmd(),
		a.processCmd(),
		a.cleanCmd(),
		a.edaCmd(),
		a.modelCmd(),
		a.watchCmd(),
	)
	return rootCmd
}

// withValidator wires the validator (and any report sinks configured in the
// environment) for the duration of fn.
func (a *app) withValidator(ctx context.Context, fn func(v DataValidator) error) error {
	deps, err := setup.Wire(ctx, a.cfg, &a.logger)
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(deps.Validator)
}

func (a *app) downloadCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the raw Iris dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Download(cmd.Context(), download.NewFetcher(http.DefaultClient, &a.logger), download.DefaultURL, output, &a.logger)
		},
	}
	cmd.Flags().StringVar(&output, "output", "data/raw/iris.csv", "Path to save raw dataset.")
	return cmd
}

func (a *app) downloadValidateCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download-validate",
		Short: "Download the Iris dataset and validate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withValidator(cmd.Context(), func(v DataValidator) error {
				return DownloadValidate(cmd.Context(), download.NewFetcher(http.DefaultClient, &a.logger), v, download.DefaultURL, output, &a.logger)
			})
		},
	}
	cmd.Flags().StringVar(&output, "output", "data/raw/iris_validated.csv", "Path to save validated raw dataset.")
	return cmd
}

func (a *app) processCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Normalise column names of a validated dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Process(input, output, &a.logger)
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/raw/iris_validated.csv", "Path to validated raw dataset.")
	cmd.Flags().StringVar(&output, "output", "data/processed/iris_processed.csv", "Path to save processed dataset.")
	return cmd
}

func (a *app) cleanCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Validate a raw dataset, clean column names and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withValidator(cmd.Context(), func(v DataValidator) error {
				return Clean(cmd.Context(), v, input, output, &a.logger)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/raw/iris.csv", "Path to raw dataset.")
	cmd.Flags().StringVar(&output, "output", "data/processed/iris_clean.csv", "Path to save cleaned and validated dataset.")
	return cmd
}

func (a *app) edaCmd() *cobra.Command {
	var input, outputDir string
	cmd := &cobra.Command{
		Use:   "eda",
		Short: "Generate scatter, boxplot and correlation heatmap figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return EDA(input, outputDir, &a.logger)
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/processed/iris_clean.csv", "Path to cleaned dataset.")
	cmd.Flags().StringVar(&outputDir, "output-dir", "results/figures", "Directory to save EDA figures.")
	return cmd
}

func (a *app) modelCmd() *cobra.Command {
	var input, outputDir string
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Train and evaluate the logistic regression classifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Model(cmd.Context(), input, outputDir, &a.logger)
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/processed/iris_clean.csv", "Path to cleaned dataset.")
	cmd.Flags().StringVar(&outputDir, "output-dir", "results/metrics", "Directory to save model artifacts.")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the clean stage whenever the raw dataset changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return a.withValidator(ctx, func(v DataValidator) error {
				stage := func(ctx context.Context) error {
					return Clean(ctx, v, input, output, &a.logger)
				}
				if err := stage(ctx); err != nil {
					a.logger.Error().Err(err).Msg("Initial run failed")
				}

				w, err := watch.New(input, stage, &a.logger)
				if err != nil {
					return err
				}
				return w.Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "data/raw/iris.csv", "Path to raw dataset.")
	cmd.Flags().StringVar(&output, "output", "data/processed/iris_clean.csv", "Path to save cleaned and validated dataset.")
	return cmd
}
