package checks

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/schema"
)

// irisRecords builds a header plus n rows per species in schema.KnownSpecies
// order. Rows are unique and free of outliers.
func irisRecords(counts ...int) [][]string {
	records := [][]string{append([]string{}, schema.Columns...)}
	for k, species := range schema.KnownSpecies {
		if k >= len(counts) {
			break
		}
		for i := 0; i < counts[k]; i++ {
			records = append(records, []string{
				fmt.Sprintf("%.2f", 4.5+float64(k)+float64(i)*0.01),
				fmt.Sprintf("%.2f", 3.4-0.3*float64(k)+float64(i%7)*0.05),
				fmt.Sprintf("%.2f", 1.4+2.0*float64(k)+float64(i%5)*0.03),
				fmt.Sprintf("%.2f", 0.2+0.8*float64(k)+float64(i%3)*0.02),
				species,
			})
		}
	}
	return records
}

func toCSV(records [][]string) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(strings.Join(r, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

func loadRaw(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df, err := dataset.ReadCSVString(toCSV(records))
	if err != nil {
		t.Fatalf("failed to load records: %v", err)
	}
	return df
}

func loadTyped(t *testing.T, records [][]string) dataframe.DataFrame {
	t.Helper()
	df, err := schema.Check(loadRaw(t, records))
	if err != nil {
		t.Fatalf("failed to coerce records: %v", err)
	}
	return df
}
