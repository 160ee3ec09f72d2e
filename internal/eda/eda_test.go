package eda

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]float64{5.1, 4.9, 4.7, 7.0, 6.4, 6.3}, series.Float, "sepal_length"),
		series.New([]float64{3.5, 3.0, 3.2, 3.2, 3.2, 3.3}, series.Float, "sepal_width"),
		series.New([]float64{1.4, 1.4, 1.3, 4.7, 4.5, 6.0}, series.Float, "petal_length"),
		series.New([]string{"setosa", "setosa", "setosa", "versicolor", "versicolor", "virginica"}, series.String, "species"),
	)
}

func TestCorrelationLong(t *testing.T) {
	corr, err := CorrelationLong(sampleFrame(), "species")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if corr.Nrow() != 9 {
		t.Errorf("rows: %d, want 9", corr.Nrow())
	}
	want := []string{Feature1, Feature2, Correlation}
	for i, name := range corr.Names() {
		if name != want[i] {
			t.Errorf("column %d: %s, want %s", i, name, want[i])
		}
	}

	first := corr.Col(Feature1).Records()
	second := corr.Col(Feature2).Records()
	values := corr.Col(Correlation).Float()
	for i := range values {
		if first[i] == second[i] && math.Abs(values[i]-1) > 1e-12 {
			t.Errorf("self correlation of %s: %v, want 1", first[i], values[i])
		}
		if first[i] == "species" || second[i] == "species" {
			t.Errorf("dropped column present at row %d", i)
		}
	}
	if first[1] != "sepal_length" || second[1] != "sepal_width" {
		t.Errorf("row 1: %s/%s, want row-major order", first[1], second[1])
	}
}

func TestCorrelationLong_NoNumericColumns(t *testing.T) {
	df := dataframe.New(series.New([]string{"a", "b"}, series.String, "species"))
	if _, err := CorrelationLong(df, "species"); err == nil {
		t.Error("expected error without numeric columns")
	}
}

func TestRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")

	r := NewRenderer("species", newTestLogger())
	if err := r.Render(sampleFrame(), "petal_length", "sepal_width", dir); err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, name := range []string{ScatterFile, BoxplotFile, HeatmapFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
