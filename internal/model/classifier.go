package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrNotFitted = errors.New("model is not fitted")

// Classifier is anything that can be cross-validated.
type Classifier interface {
	Fit(X *mat.Dense, y []string) error
	Predict(X *mat.Dense) ([]string, error)
}

// LogisticRegression is a multinomial (softmax) classifier with an L2
// penalty, fitted by full-batch gradient descent. C is the inverse
// regularisation strength.
type LogisticRegression struct {
	C            float64     `json:"c"`
	MaxIter      int         `json:"max_iter"`
	LearningRate float64     `json:"learning_rate"`
	Classes      []string    `json:"classes"`
	Weights      [][]float64 `json:"weights"`
	Intercept    []float64   `json:"intercept"`
}

func NewLogisticRegression(c float64) *LogisticRegression {
	return &LogisticRegression{C: c, MaxIter: 500, LearningRate: 0.5}
}

func (m *LogisticRegression) Fit(X *mat.Dense, y []string) error {
	n, d := X.Dims()
	if n != len(y) {
		return fmt.Errorf("X has %d rows, y has %d labels", n, len(y))
	}
	if m.C <= 0 {
		return fmt.Errorf("C must be positive, got %v", m.C)
	}

	classes := classesOf(y)
	if len(classes) < 2 {
		return fmt.Errorf("need at least two classes, got %d", len(classes))
	}
	k := len(classes)
	index := make(map[string]int, k)
	for i, c := range classes {
		index[c] = i
	}

	Y := mat.NewDense(n, k, nil)
	for i, label := range y {
		Y.Set(i, index[label], 1)
	}

	W := mat.NewDense(k, d, nil)
	b := make([]float64, k)
	lr := m.LearningRate
	// the penalty is applied as an implicit step so tiny C stays stable
	shrink := 1 / (1 + lr/(m.C*float64(n)))

	G := mat.NewDense(n, k, nil)
	grad := mat.NewDense(k, d, nil)
	for iter := 0; iter < m.MaxIter; iter++ {
		G.Mul(X, W.T())
		for i := 0; i < n; i++ {
			softmax(G.RawRowView(i), b)
		}
		G.Sub(G, Y)

		grad.Mul(G.T(), X)
		grad.Scale(lr/float64(n), grad)
		W.Sub(W, grad)
		W.Scale(shrink, W)

		for j := 0; j < k; j++ {
			b[j] -= lr * mat.Sum(G.ColView(j)) / float64(n)
		}
	}

	m.Classes = classes
	m.Weights = make([][]float64, k)
	for j := 0; j < k; j++ {
		m.Weights[j] = mat.Row(nil, j, W)
	}
	m.Intercept = b
	return nil
}

// PredictProba returns one row of class probabilities per sample, columns
// ordered as m.Classes.
func (m *LogisticRegression) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	if len(m.Classes) == 0 {
		return nil, ErrNotFitted
	}
	n, d := X.Dims()
	k := len(m.Classes)
	if len(m.Weights[0]) != d {
		return nil, fmt.Errorf("model fitted on %d features, got %d", len(m.Weights[0]), d)
	}

	W := mat.NewDense(k, d, nil)
	for j, row := range m.Weights {
		W.SetRow(j, row)
	}

	P := mat.NewDense(n, k, nil)
	P.Mul(X, W.T())
	for i := 0; i < n; i++ {
		softmax(P.RawRowView(i), m.Intercept)
	}
	return P, nil
}

func (m *LogisticRegression) Predict(X *mat.Dense) ([]string, error) {
	P, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n, _ := P.Dims()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		row := P.RawRowView(i)
		best := 0
		for j := range row {
			if row[j] > row[best] {
				best = j
			}
		}
		out[i] = m.Classes[best]
	}
	return out, nil
}

// softmax replaces logits (plus bias) with probabilities in place.
func softmax(logits, bias []float64) {
	hi := math.Inf(-1)
	for j := range logits {
		logits[j] += bias[j]
		hi = math.Max(hi, logits[j])
	}
	var sum float64
	for j := range logits {
		logits[j] = math.Exp(logits[j] - hi)
		sum += logits[j]
	}
	for j := range logits {
		logits[j] /= sum
	}
}

// DummyClassifier always predicts the most frequent training label. Ties
// go to the label that sorts first.
type DummyClassifier struct {
	MostFrequent string `json:"most_frequent"`
}

func (d *DummyClassifier) Fit(_ *mat.Dense, y []string) error {
	if len(y) == 0 {
		return fmt.Errorf("cannot fit on zero labels")
	}
	counts := map[string]int{}
	for _, label := range y {
		counts[label]++
	}
	best := ""
	for _, label := range classesOf(y) {
		if best == "" || counts[label] > counts[best] {
			best = label
		}
	}
	d.MostFrequent = best
	return nil
}

func (d *DummyClassifier) Predict(X *mat.Dense) ([]string, error) {
	if d.MostFrequent == "" {
		return nil, ErrNotFitted
	}
	n, _ := X.Dims()
	out := make([]string, n)
	for i := range out {
		out[i] = d.MostFrequent
	}
	return out, nil
}
