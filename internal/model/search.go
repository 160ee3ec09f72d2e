package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RandomizedSearch samples C from a log-uniform distribution and keeps the
// candidate with the best mean cross-validated accuracy.
type RandomizedSearch struct {
	NIter int
	Folds int
	Seed  int64
	Low   float64
	High  float64
}

func NewRandomizedSearch() *RandomizedSearch {
	return &RandomizedSearch{NIter: 50, Folds: 5, Seed: DefaultSeed, Low: 1e-6, High: 1e6}
}

type Candidate struct {
	C      float64
	Result CVResult
	Rank   int
}

type SearchResult struct {
	// Candidates sorted by mean test score, best first.
	Candidates []Candidate
	Best       Candidate
	BestModel  *Pipeline
}

// Fit evaluates NIter candidates and refits the best one on all of X.
func (s *RandomizedSearch) Fit(ctx context.Context, features []string, X *mat.Dense, y []string) (*SearchResult, error) {
	if s.NIter < 1 {
		return nil, fmt.Errorf("n_iter must be positive, got %d", s.NIter)
	}
	if s.Low <= 0 || s.High <= s.Low {
		return nil, fmt.Errorf("invalid C range [%v, %v]", s.Low, s.High)
	}

	rng := rand.New(rand.NewSource(s.Seed))
	logLow, logHigh := math.Log(s.Low), math.Log(s.High)

	candidates := make([]Candidate, 0, s.NIter)
	for i := 0; i < s.NIter; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := math.Exp(logLow + rng.Float64()*(logHigh-logLow))
		res, err := CrossValidate(func() Classifier { return NewPipeline(features, c) }, X, y, s.Folds)
		if err != nil {
			return nil, fmt.Errorf("candidate C=%g: %w", c, err)
		}
		candidates = append(candidates, Candidate{C: c, Result: res})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Result.MeanTestScore() > candidates[j].Result.MeanTestScore()
	})
	rankCandidates(candidates)

	best := candidates[0]
	model := NewPipeline(features, best.C)
	if err := model.Fit(X, y); err != nil {
		return nil, fmt.Errorf("refit best candidate: %w", err)
	}

	return &SearchResult{Candidates: candidates, Best: best, BestModel: model}, nil
}

// rankCandidates assigns competition ranks (1, 2, 2, 4) to sorted candidates.
func rankCandidates(sorted []Candidate) {
	for i := range sorted {
		if i > 0 && sorted[i].Result.MeanTestScore() == sorted[i-1].Result.MeanTestScore() {
			sorted[i].Rank = sorted[i-1].Rank
			continue
		}
		sorted[i].Rank = i + 1
	}
}

// DataFrame lays the candidates out like a cv_results table, one row per
// candidate in the current order.
func (r *SearchResult) DataFrame() dataframe.DataFrame {
	n := len(r.Candidates)
	params := make([]float64, n)
	meanFit := make([]float64, n)
	stdFit := make([]float64, n)
	meanScore := make([]float64, n)
	meanTest := make([]float64, n)
	stdTest := make([]float64, n)
	ranks := make([]int, n)

	folds := 0
	if n > 0 {
		folds = len(r.Candidates[0].Result.TestScore)
	}
	splits := make([][]float64, folds)
	for f := range splits {
		splits[f] = make([]float64, n)
	}

	for i, c := range r.Candidates {
		params[i] = c.C
		meanFit[i], stdFit[i] = stat.PopMeanStdDev(c.Result.FitTime, nil)
		meanScore[i] = stat.Mean(c.Result.ScoreTime, nil)
		meanTest[i], stdTest[i] = stat.PopMeanStdDev(c.Result.TestScore, nil)
		ranks[i] = c.Rank
		for f := range splits {
			splits[f][i] = c.Result.TestScore[f]
		}
	}

	cols := []series.Series{
		series.New(meanFit, series.Float, "mean_fit_time"),
		series.New(stdFit, series.Float, "std_fit_time"),
		series.New(meanScore, series.Float, "mean_score_time"),
		series.New(params, series.Float, "param_classifier__C"),
	}
	for f := range splits {
		cols = append(cols, series.New(splits[f], series.Float, fmt.Sprintf("split%d_test_score", f)))
	}
	cols = append(cols,
		series.New(meanTest, series.Float, "mean_test_score"),
		series.New(stdTest, series.Float, "std_test_score"),
		series.New(ranks, series.Int, "rank_test_score"),
	)
	return dataframe.New(cols...)
}
