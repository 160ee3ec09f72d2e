package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column to zero mean and unit population
// variance. Constant columns are only centred.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Fit(X *mat.Dense) {
	_, c := X.Dims()
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
}

func (s *StandardScaler) Transform(X *mat.Dense) (*mat.Dense, error) {
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("scaler fitted on %d features, got %d", len(s.Mean), c)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}
