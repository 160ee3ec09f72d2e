package eda

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

const (
	Feature1    = "feature1"
	Feature2    = "feature2"
	Correlation = "correlation"
)

// CorrelationLong computes the Pearson correlation of every pair of numeric
// columns except dropCol and returns it in long form: one row per ordered
// pair, N*N rows in row-major column order.
func CorrelationLong(df dataframe.DataFrame, dropCol string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}

	names := NumericColumns(df, dropCol)
	if len(names) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no numeric columns besides %q", dropCol)
	}

	columns := make([][]float64, len(names))
	for i, name := range names {
		columns[i] = df.Col(name).Float()
	}

	n := len(names) * len(names)
	first := make([]string, 0, n)
	second := make([]string, 0, n)
	values := make([]float64, 0, n)
	for i := range names {
		for j := range names {
			first = append(first, names[i])
			second = append(second, names[j])
			values = append(values, stat.Correlation(columns[i], columns[j], nil))
		}
	}

	out := dataframe.New(
		series.New(first, series.String, Feature1),
		series.New(second, series.String, Feature2),
		series.New(values, series.Float, Correlation),
	)
	return out, out.Err
}

// NumericColumns lists the float and int columns of df, skipping dropCol.
func NumericColumns(df dataframe.DataFrame, dropCol string) []string {
	var names []string
	for _, name := range df.Names() {
		if name == dropCol {
			continue
		}
		switch df.Col(name).Type() {
		case series.Float, series.Int:
			names = append(names, name)
		}
	}
	return names
}
