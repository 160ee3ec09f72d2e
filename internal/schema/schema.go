package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/povarna/iris-pipeline/internal/dataset"
)

const (
	SepalLength = "sepal_length"
	SepalWidth  = "sepal_width"
	PetalLength = "petal_length"
	PetalWidth  = "petal_width"
	Species     = "species"
)

// NumericColumns are the measurement columns in canonical order.
var NumericColumns = []string{SepalLength, SepalWidth, PetalLength, PetalWidth}

// Columns is the full canonical column order.
var Columns = []string{SepalLength, SepalWidth, PetalLength, PetalWidth, Species}

var KnownSpecies = []string{"setosa", "versicolor", "virginica"}

func IsKnownSpecies(label string) bool {
	for _, s := range KnownSpecies {
		if s == label {
			return true
		}
	}
	return false
}

// Check names used in SchemaError.
const (
	CheckColumnPresent = "column_in_dataframe"
	CheckColumnAllowed = "column_in_schema"
	CheckNotNull       = "not_nullable"
	CheckFloatType     = "dtype('float64')"
	CheckPositive      = "greater_than(0)"
)

// Failure is a single offending cell. Row is -1 for column level checks.
type Failure struct {
	Row   int
	Value string
}

type SchemaError struct {
	Column   string
	Check    string
	Failures []Failure
}

func (e *SchemaError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("column %q failed check %s", e.Column, e.Check)
	}
	first := e.Failures[0]
	return fmt.Sprintf("column %q failed check %s: %d failure case(s), first at row %d (%q)",
		e.Column, e.Check, len(e.Failures), first.Row, first.Value)
}

// Check verifies df holds exactly the expected columns and coerces them:
// measurements to float64 (non-null, > 0) and species to a non-null string.
// The returned frame is a new frame in canonical column order.
func Check(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("invalid dataframe: %w", df.Err)
	}

	if err := checkColumns(df.Names()); err != nil {
		return dataframe.DataFrame{}, err
	}

	cols := make([]series.Series, 0, len(Columns))
	for _, name := range NumericColumns {
		values, err := coerceFloat(name, df.Col(name).Records())
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		cols = append(cols, series.New(values, series.Float, name))
	}

	labels, err := coerceLabel(df.Col(Species).Records())
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	cols = append(cols, series.New(labels, series.String, Species))

	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build coerced frame: %w", out.Err)
	}
	return out, nil
}

func checkColumns(names []string) error {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	for _, want := range Columns {
		if !present[want] {
			return &SchemaError{Column: want, Check: CheckColumnPresent}
		}
	}

	allowed := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		allowed[c] = true
	}
	for _, n := range names {
		if !allowed[n] {
			return &SchemaError{Column: n, Check: CheckColumnAllowed}
		}
	}

	if len(names) != len(Columns) {
		return &SchemaError{Column: "", Check: CheckColumnAllowed, Failures: []Failure{{Row: -1, Value: strings.Join(names, ",")}}}
	}
	return nil
}

func coerceFloat(column string, raw []string) ([]float64, error) {
	var nulls, badType, nonPositive []Failure
	values := make([]float64, len(raw))

	for i, cell := range raw {
		if dataset.IsNull(cell) {
			nulls = append(nulls, Failure{Row: i, Value: cell})
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			badType = append(badType, Failure{Row: i, Value: cell})
			continue
		}
		if !(v > 0) {
			nonPositive = append(nonPositive, Failure{Row: i, Value: cell})
			continue
		}
		values[i] = v
	}

	switch {
	case len(nulls) > 0:
		return nil, &SchemaError{Column: column, Check: CheckNotNull, Failures: nulls}
	case len(badType) > 0:
		return nil, &SchemaError{Column: column, Check: CheckFloatType, Failures: badType}
	case len(nonPositive) > 0:
		return nil, &SchemaError{Column: column, Check: CheckPositive, Failures: nonPositive}
	}
	return values, nil
}

func coerceLabel(raw []string) ([]string, error) {
	var nulls []Failure
	labels := make([]string, len(raw))
	for i, cell := range raw {
		if dataset.IsNull(cell) {
			nulls = append(nulls, Failure{Row: i, Value: cell})
			continue
		}
		labels[i] = cell
	}
	if len(nulls) > 0 {
		return nil, &SchemaError{Column: Species, Check: CheckNotNull, Failures: nulls}
	}
	return labels, nil
}
