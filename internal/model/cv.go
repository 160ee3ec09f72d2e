package model

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CVResult holds per-fold timings (seconds) and accuracies.
type CVResult struct {
	FitTime    []float64
	ScoreTime  []float64
	TestScore  []float64
	TrainScore []float64
}

func (r CVResult) MeanTestScore() float64 {
	return stat.Mean(r.TestScore, nil)
}

func (r CVResult) DataFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New(r.FitTime, series.Float, "fit_time"),
		series.New(r.ScoreTime, series.Float, "score_time"),
		series.New(r.TestScore, series.Float, "test_score"),
		series.New(r.TrainScore, series.Float, "train_score"),
	)
}

// CrossValidate fits a fresh classifier from newModel on each of k
// stratified folds and scores it on the held-out fold and on its own
// training data.
func CrossValidate(newModel func() Classifier, X *mat.Dense, y []string, k int) (CVResult, error) {
	folds, err := StratifiedKFold(y, k)
	if err != nil {
		return CVResult{}, err
	}

	var res CVResult
	for f, testIdx := range folds {
		trainIdx := complement(len(y), testIdx)
		Xtr, ytr := rowsOf(X, trainIdx), labelsOf(y, trainIdx)
		Xte, yte := rowsOf(X, testIdx), labelsOf(y, testIdx)

		clf := newModel()
		start := time.Now()
		if err := clf.Fit(Xtr, ytr); err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", f, err)
		}
		fitTime := time.Since(start).Seconds()

		start = time.Now()
		predTest, err := clf.Predict(Xte)
		if err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", f, err)
		}
		scoreTime := time.Since(start).Seconds()

		predTrain, err := clf.Predict(Xtr)
		if err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", f, err)
		}

		res.FitTime = append(res.FitTime, fitTime)
		res.ScoreTime = append(res.ScoreTime, scoreTime)
		res.TestScore = append(res.TestScore, Accuracy(yte, predTest))
		res.TrainScore = append(res.TrainScore, Accuracy(ytr, predTrain))
	}
	return res, nil
}

func complement(n int, idx []int) []int {
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	out := make([]int, 0, n-len(idx))
	for i := 0; i < n; i++ {
		if !skip[i] {
			out = append(out, i)
		}
	}
	return out
}
