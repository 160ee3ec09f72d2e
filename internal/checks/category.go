package checks

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/povarna/iris-pipeline/internal/schema"
)

const (
	CategoryCheck   = "category-check"
	BalanceCheck    = "balance-check"
	DegeneracyCheck = "degeneracy-check"
)

// meanTolerance is the relative difference under which two class means
// count as identical.
const meanTolerance = 1e-9

type CategoryChecker struct {
}

func NewCategoryChecker() *CategoryChecker {
	return &CategoryChecker{}
}

// Check removes rows whose species is not one of the known labels.
func (c *CategoryChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	if !dataset.HasColumn(df, schema.Species) {
		result := models.Failed(CategoryCheck, models.KindSchema, fmt.Sprintf("missing column %q", schema.Species))
		result.Duration = time.Since(now)
		return df, result
	}

	labels := df.Col(schema.Species).Records()
	keep := make([]int, 0, len(labels))
	unknown := map[string]int{}
	for i, label := range labels {
		if schema.IsKnownSpecies(label) {
			keep = append(keep, i)
			continue
		}
		unknown[label]++
	}

	if len(unknown) == 0 {
		result := models.Passed(CategoryCheck, "all labels are known")
		result.Duration = time.Since(now)
		return df, result
	}

	values := make([]string, 0, len(unknown))
	for label, n := range unknown {
		values = append(values, fmt.Sprintf("%q (%d)", label, n))
	}
	sort.Strings(values)

	removed := len(labels) - len(keep)
	result := models.PassedWithWarning(CategoryCheck,
		fmt.Sprintf("removed %d rows with unknown species: %s", removed, strings.Join(values, ", ")))
	result.RowsRemoved = removed
	result.Duration = time.Since(now)
	return df.Subset(keep), result
}

type BalanceChecker struct {
	min int
	max int
}

func NewBalanceChecker(min, max int) *BalanceChecker {
	return &BalanceChecker{min: min, max: max}
}

// Check fails when any known species has a row count outside [min, max].
// A species with no rows at all is a violation.
func (c *BalanceChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	counts := ClassCounts(df)

	var violations []string
	for _, species := range schema.KnownSpecies {
		n := counts[species]
		if n < c.min || n > c.max {
			violations = append(violations, fmt.Sprintf("%s=%d", species, n))
		}
	}

	result := models.Passed(BalanceCheck, fmt.Sprintf("class counts within [%d, %d]", c.min, c.max))
	if len(violations) > 0 {
		result = models.Failed(BalanceCheck, models.KindDistribution,
			fmt.Sprintf("class counts outside [%d, %d]: %s", c.min, c.max, strings.Join(violations, ", ")))
	}

	result.Duration = time.Since(now)
	return df, result
}

func ClassCounts(df dataframe.DataFrame) map[string]int {
	counts := map[string]int{}
	if !dataset.HasColumn(df, schema.Species) {
		return counts
	}
	for _, label := range df.Col(schema.Species).Records() {
		counts[label]++
	}
	return counts
}

type DegeneracyChecker struct {
}

func NewDegeneracyChecker() *DegeneracyChecker {
	return &DegeneracyChecker{}
}

// Check fails when a measurement has the same mean in every species present.
// Fewer than two species leave nothing to compare.
func (c *DegeneracyChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	var degenerate []string
	for _, name := range schema.NumericColumns {
		if !dataset.HasColumn(df, name) {
			continue
		}
		means := ClassMeans(df, name)
		if len(means) < 2 {
			continue
		}
		if allEqual(means) {
			degenerate = append(degenerate, name)
		}
	}

	result := models.Passed(DegeneracyCheck, "every feature varies across species")
	if len(degenerate) > 0 {
		result = models.Failed(DegeneracyCheck, models.KindDegenerateFeature,
			fmt.Sprintf("identical per-species means for %s", strings.Join(degenerate, ", ")))
	}

	result.Duration = time.Since(now)
	return df, result
}

// ClassMeans returns the mean of column per species label.
func ClassMeans(df dataframe.DataFrame, column string) map[string]float64 {
	means := map[string]float64{}
	if !dataset.HasColumn(df, schema.Species) {
		return means
	}

	labels := df.Col(schema.Species).Records()
	values := df.Col(column).Float()
	sums := map[string]float64{}
	counts := map[string]int{}
	for i, label := range labels {
		sums[label] += values[i]
		counts[label]++
	}
	for label, sum := range sums {
		means[label] = sum / float64(counts[label])
	}
	return means
}

func allEqual(means map[string]float64) bool {
	first := true
	var ref float64
	for _, m := range means {
		if first {
			ref, first = m, false
			continue
		}
		if math.Abs(m-ref) > meanTolerance*math.Max(1, math.Abs(ref)) {
			return false
		}
	}
	return true
}
