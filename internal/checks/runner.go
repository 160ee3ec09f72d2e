package checks

import (
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/models"
)

type Runner struct {
	Checkers []Checker
}

func NewRunner(checkers []Checker) *Runner {
	return &Runner{
		Checkers: checkers,
	}
}

// Run executes the checkers in order, feeding each one the frame returned
// by the previous step. It stops at the first failed result; the frame
// returned is the last one produced by a passing step.
func (r *Runner) Run(df dataframe.DataFrame) (dataframe.DataFrame, []models.CheckResult) {
	results := make([]models.CheckResult, 0, len(r.Checkers))
	current := df

	for _, checker := range r.Checkers {
		now := time.Now()
		next, result := checker.Check(current)
		if result.Duration == 0 {
			result.Duration = time.Since(now)
		}
		results = append(results, result)

		if result.Status == models.StatusFailed {
			return current, results
		}
		current = next
	}

	return current, results
}
