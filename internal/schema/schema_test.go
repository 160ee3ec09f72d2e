package schema

import (
	"errors"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/povarna/iris-pipeline/internal/dataset"
)

const header = "sepal_length,sepal_width,petal_length,petal_width,species\n"

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		wantErr   bool
		column    string
		check     string
		failCount int
	}{
		{
			name: "valid rows",
			csv:  header + "5.1,3.5,1.4,0.2,setosa\n6.3,3.3,6.0,2.5,virginica\n",
		},
		{
			name:    "columns out of order are accepted",
			csv:     "species,petal_width,petal_length,sepal_width,sepal_length\nsetosa,0.2,1.4,3.5,5.1\n",
			wantErr: false,
		},
		{
			name:    "missing column",
			csv:     "sepal_length,sepal_width,petal_length,species\n5.1,3.5,1.4,setosa\n",
			wantErr: true,
			column:  PetalWidth,
			check:   CheckColumnPresent,
		},
		{
			name:    "extra column",
			csv:     "sepal_length,sepal_width,petal_length,petal_width,species,id\n5.1,3.5,1.4,0.2,setosa,1\n",
			wantErr: true,
			column:  "id",
			check:   CheckColumnAllowed,
		},
		{
			name:      "negative measurement",
			csv:       header + "5.1,3.5,1.4,0.2,setosa\n-1.0,3.0,1.4,0.2,setosa\n",
			wantErr:   true,
			column:    SepalLength,
			check:     CheckPositive,
			failCount: 1,
		},
		{
			name:      "zero measurement",
			csv:       header + "5.1,3.5,1.4,0,setosa\n",
			wantErr:   true,
			column:    PetalWidth,
			check:     CheckPositive,
			failCount: 1,
		},
		{
			name:      "non numeric measurement",
			csv:       header + "5.1,abc,1.4,0.2,setosa\n",
			wantErr:   true,
			column:    SepalWidth,
			check:     CheckFloatType,
			failCount: 1,
		},
		{
			name:      "null measurement",
			csv:       header + "5.1,3.5,,0.2,setosa\n5.0,3.4,NA,0.2,setosa\n",
			wantErr:   true,
			column:    PetalLength,
			check:     CheckNotNull,
			failCount: 2,
		},
		{
			name:      "null label",
			csv:       header + "5.1,3.5,1.4,0.2,\n",
			wantErr:   true,
			column:    Species,
			check:     CheckNotNull,
			failCount: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			df, err := dataset.ReadCSVString(test.csv)
			if err != nil {
				t.Fatalf("unexpected read error: %v", err)
			}

			out, err := Check(df)
			if !test.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.Nrow() != df.Nrow() {
					t.Errorf("rows: %d, want %d", out.Nrow(), df.Nrow())
				}
				return
			}

			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("error: %v, want *SchemaError", err)
			}
			if schemaErr.Column != test.column {
				t.Errorf("Column: %s, want: %s", schemaErr.Column, test.column)
			}
			if schemaErr.Check != test.check {
				t.Errorf("Check: %s, want: %s", schemaErr.Check, test.check)
			}
			if test.failCount > 0 && len(schemaErr.Failures) != test.failCount {
				t.Errorf("Failures: %d, want: %d", len(schemaErr.Failures), test.failCount)
			}
		})
	}
}

func TestCheck_CoercesTypesInCanonicalOrder(t *testing.T) {
	df, err := dataset.ReadCSVString("species,petal_width,petal_length,sepal_width,sepal_length\nsetosa,0.2,1.4,3.5,5.1\n")
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}

	out, err := Check(df)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, name := range out.Names() {
		if name != Columns[i] {
			t.Errorf("column %d: %s, want %s", i, name, Columns[i])
		}
	}
	for _, name := range NumericColumns {
		if out.Col(name).Type() != series.Float {
			t.Errorf("%s type: %s, want float", name, out.Col(name).Type())
		}
	}
	if got := out.Col(SepalLength).Float()[0]; got != 5.1 {
		t.Errorf("sepal_length: %v, want 5.1", got)
	}
	if df.Names()[0] != Species {
		t.Errorf("input was mutated: %v", df.Names())
	}
}

func TestIsKnownSpecies(t *testing.T) {
	if !IsKnownSpecies("versicolor") {
		t.Error("versicolor should be known")
	}
	if IsKnownSpecies("Setosa") {
		t.Error("labels are case sensitive")
	}
}
