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
	"gonum.org/v1/gonum/stat"
)

const (
	OutlierCheck     = "outlier-check"
	CorrelationCheck = "correlation-check"
)

type OutlierChecker struct {
	limit float64
}

func NewOutlierChecker(limit float64) *OutlierChecker {
	return &OutlierChecker{limit: limit}
}

// Check fails when any measurement has |z| above the limit. Rows are never
// dropped here.
func (c *OutlierChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	var offending []string
	for _, name := range schema.NumericColumns {
		if !dataset.HasColumn(df, name) {
			continue
		}
		count, maxZ := 0, 0.0
		for _, z := range ZScores(df.Col(name).Float()) {
			if math.Abs(z) > c.limit {
				count++
				maxZ = math.Max(maxZ, math.Abs(z))
			}
		}
		if count > 0 {
			offending = append(offending, fmt.Sprintf("%s (%d rows, max |z| %.2f)", name, count, maxZ))
		}
	}

	result := models.Passed(OutlierCheck, fmt.Sprintf("no |z| above %g", c.limit))
	if len(offending) > 0 {
		result = models.Failed(OutlierCheck, models.KindOutlier,
			fmt.Sprintf("outliers with |z| above %g in %s", c.limit, strings.Join(offending, ", ")))
	}

	result.Duration = time.Since(now)
	return df, result
}

// ZScores standardises values with the sample standard deviation. A column
// with fewer than two values or zero variance yields all zeros.
func ZScores(values []float64) []float64 {
	z := make([]float64, len(values))
	if len(values) < 2 {
		return z
	}

	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return z
	}
	for i, v := range values {
		z[i] = (v - mean) / std
	}
	return z
}

// FeaturePair is a pair of numeric columns and their Pearson correlation.
type FeaturePair struct {
	A, B        string
	Correlation float64
}

type CorrelationChecker struct {
	limit float64
}

func NewCorrelationChecker(limit float64) *CorrelationChecker {
	return &CorrelationChecker{limit: limit}
}

// Check reports feature pairs with |r| above the limit. It never fails.
func (c *CorrelationChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	pairs := HighlyCorrelated(df, c.limit)

	result := models.Passed(CorrelationCheck, fmt.Sprintf("no feature pairs with |r| above %g", c.limit))
	if len(pairs) > 0 {
		parts := make([]string, len(pairs))
		for i, p := range pairs {
			parts[i] = fmt.Sprintf("%s/%s (r=%.3f)", p.A, p.B, p.Correlation)
		}
		result = models.PassedWithWarning(CorrelationCheck,
			fmt.Sprintf("highly correlated features: %s", strings.Join(parts, ", ")))
	}

	result.Duration = time.Since(now)
	return df, result
}

// HighlyCorrelated returns the numeric column pairs whose absolute
// correlation exceeds limit, sorted by descending |r|.
func HighlyCorrelated(df dataframe.DataFrame, limit float64) []FeaturePair {
	if df.Nrow() < 2 {
		return nil
	}

	var names []string
	for _, name := range schema.NumericColumns {
		if dataset.HasColumn(df, name) {
			names = append(names, name)
		}
	}

	var pairs []FeaturePair
	for i := 0; i < len(names); i++ {
		x := df.Col(names[i]).Float()
		for j := i + 1; j < len(names); j++ {
			r := stat.Correlation(x, df.Col(names[j]).Float(), nil)
			if math.IsNaN(r) || math.Abs(r) <= limit {
				continue
			}
			pairs = append(pairs, FeaturePair{A: names[i], B: names[j], Correlation: r})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	return pairs
}
