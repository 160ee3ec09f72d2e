package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/eda"
	"github.com/rs/zerolog"
)

const (
	DummyResultsFile   = "dummy_cv_results.csv"
	CVResultsFile      = "cv_results.csv"
	MetricsWorkbook    = "metrics.xlsx"
	ConfusionPlotFile  = "confusion_matrix.png"
	ModelFile          = "logreg_model.json"
	defaultFoldsDummy  = 5
	confusionPlotTitle = "Confusion Matrix - Iris Logistic Regression"
)

type Summary struct {
	TrainAccuracy float64
	TestAccuracy  float64
	BestC         float64
	Classes       []string
	Confusion     [][]int
}

type Trainer struct {
	Target   string
	TestSize float64
	Seed     int64
	Search   *RandomizedSearch
	logger   *zerolog.Logger
}

func NewTrainer(logger *zerolog.Logger) *Trainer {
	return &Trainer{
		Target:   DefaultTarget,
		TestSize: DefaultTestSize,
		Seed:     DefaultSeed,
		Search:   NewRandomizedSearch(),
		logger:   logger,
	}
}

// Run splits df, cross-validates a most-frequent baseline, tunes the
// logistic regression pipeline and writes every artifact into outputDir.
func (t *Trainer) Run(ctx context.Context, df dataframe.DataFrame, outputDir string) (*Summary, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	Xdf, ySeries, err := PrepareFeaturesAndTarget(df, t.Target)
	if err != nil {
		return nil, err
	}
	X, err := ToMatrix(Xdf)
	if err != nil {
		return nil, err
	}
	y := ySeries.Records()
	features := Xdf.Names()

	t.logger.Info().Msg("Splitting data...")
	trainIdx, testIdx, err := TrainTestSplit(len(y), t.TestSize, t.Seed)
	if err != nil {
		return nil, err
	}
	Xtr, ytr := rowsOf(X, trainIdx), labelsOf(y, trainIdx)
	Xte, yte := rowsOf(X, testIdx), labelsOf(y, testIdx)

	t.logger.Info().Msg("Running baseline dummy classifier...")
	dummy, err := CrossValidate(func() Classifier { return &DummyClassifier{} }, Xtr, ytr, defaultFoldsDummy)
	if err != nil {
		return nil, fmt.Errorf("dummy cross-validation: %w", err)
	}
	dummyDF := dummy.DataFrame()
	if err := dataset.WriteFile(dummyDF, filepath.Join(outputDir, DummyResultsFile)); err != nil {
		return nil, err
	}

	t.logger.Info().Int("candidates", t.Search.NIter).Msg("Running randomized search...")
	search, err := t.Search.Fit(ctx, features, Xtr, ytr)
	if err != nil {
		return nil, fmt.Errorf("randomized search: %w", err)
	}
	cvDF := search.DataFrame()
	if err := dataset.WriteFile(cvDF, filepath.Join(outputDir, CVResultsFile)); err != nil {
		return nil, err
	}

	best := search.BestModel
	trainAcc, err := best.Score(Xtr, ytr)
	if err != nil {
		return nil, err
	}
	predTest, err := best.Predict(Xte)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		TrainAccuracy: trainAcc,
		TestAccuracy:  Accuracy(yte, predTest),
		BestC:         search.Best.C,
		Classes:       best.Classifier.Classes,
		Confusion:     ConfusionMatrix(best.Classifier.Classes, yte, predTest),
	}
	t.logger.Info().
		Float64("train_accuracy", summary.TrainAccuracy).
		Float64("test_accuracy", summary.TestAccuracy).
		Float64("best_c", summary.BestC).
		Msg("Model evaluated")

	if err := saveConfusion(summary, filepath.Join(outputDir, ConfusionPlotFile)); err != nil {
		return nil, err
	}
	if err := WriteWorkbook(filepath.Join(outputDir, MetricsWorkbook), summary, map[string]dataframe.DataFrame{
		"dummy_cv":   dummyDF,
		"cv_results": cvDF,
	}); err != nil {
		return nil, err
	}
	if err := best.Save(filepath.Join(outputDir, ModelFile)); err != nil {
		return nil, err
	}

	t.logger.Info().Str("dir", outputDir).Msg("Model artifacts saved")
	return summary, nil
}

func saveConfusion(s *Summary, path string) error {
	n := len(s.Classes)
	values := make([][]float64, n)
	hi := 0.0
	// heatmap rows run bottom to top, so flip to keep the first class on top
	rows := make([]string, n)
	for i := range s.Confusion {
		r := n - 1 - i
		rows[r] = s.Classes[i]
		values[r] = make([]float64, n)
		for j, v := range s.Confusion[i] {
			values[r][j] = float64(v)
			if float64(v) > hi {
				hi = float64(v)
			}
		}
	}
	return eda.SaveHeatmap(confusionPlotTitle, rows, s.Classes, values, 0, hi, path)
}
