package checks

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/config"
	"github.com/povarna/iris-pipeline/internal/models"
)

// Checker is one validation step. It either returns a (possibly repaired)
// copy of the frame with a passed or warning result, or a failed result.
type Checker interface {
	Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult)
}

// DefaultCheckers returns the validation steps in the order they must run.
func DefaultCheckers(cfg *config.ValidationConfig) []Checker {
	return []Checker{
		NewTypeChecker(),
		NewDuplicateChecker(),
		NewSchemaChecker(),
		NewOutlierChecker(cfg.ZScoreLimit),
		NewCategoryChecker(),
		NewBalanceChecker(cfg.MinClassCount, cfg.MaxClassCount),
		NewDegeneracyChecker(),
		NewCorrelationChecker(cfg.CorrelationLimit),
	}
}
