package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Pipeline standardises the features then applies a logistic regression.
type Pipeline struct {
	Features   []string            `json:"features"`
	Scaler     *StandardScaler     `json:"scaler"`
	Classifier *LogisticRegression `json:"classifier"`
}

func NewPipeline(features []string, c float64) *Pipeline {
	return &Pipeline{
		Features:   features,
		Scaler:     &StandardScaler{},
		Classifier: NewLogisticRegression(c),
	}
}

func (p *Pipeline) Fit(X *mat.Dense, y []string) error {
	p.Scaler.Fit(X)
	Xs, err := p.Scaler.Transform(X)
	if err != nil {
		return err
	}
	return p.Classifier.Fit(Xs, y)
}

func (p *Pipeline) Predict(X *mat.Dense) ([]string, error) {
	Xs, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(Xs)
}

func (p *Pipeline) Score(X *mat.Dense, y []string) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred), nil
}

// Save writes the fitted pipeline as indented JSON.
func (p *Pipeline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model %s: %w", path, err)
	}
	return nil
}

func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if p.Scaler == nil || p.Classifier == nil {
		return nil, fmt.Errorf("model %s is incomplete", path)
	}
	return &p, nil
}
