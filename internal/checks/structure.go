package checks

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/povarna/iris-pipeline/internal/schema"
)

const (
	TypeCheck      = "type-check"
	DuplicateCheck = "duplicate-check"
	SchemaCheck    = "schema-check"
)

type TypeChecker struct {
}

func NewTypeChecker() *TypeChecker {
	return &TypeChecker{}
}

// Check rejects anything that did not load as a table with at least one column.
func (c *TypeChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	var result models.CheckResult
	switch {
	case df.Err != nil:
		result = models.Failed(TypeCheck, models.KindType, fmt.Sprintf("input is not a table: %v", df.Err))
		result.Err = df.Err
	case df.Ncol() == 0:
		result = models.Failed(TypeCheck, models.KindType, "input is not a table: no columns")
	default:
		result = models.Passed(TypeCheck, fmt.Sprintf("table with %d rows and %d columns", df.Nrow(), df.Ncol()))
	}

	result.Duration = time.Since(now)
	return df, result
}

type DuplicateChecker struct {
}

func NewDuplicateChecker() *DuplicateChecker {
	return &DuplicateChecker{}
}

func (c *DuplicateChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	out, dropped := dataset.DropDuplicates(df)

	result := models.Passed(DuplicateCheck, "no duplicate rows")
	if dropped > 0 {
		result = models.PassedWithWarning(DuplicateCheck, fmt.Sprintf("removed %d duplicate rows", dropped))
		result.RowsRemoved = dropped
	}

	result.Duration = time.Since(now)
	return out, result
}

type SchemaChecker struct {
}

func NewSchemaChecker() *SchemaChecker {
	return &SchemaChecker{}
}

func (c *SchemaChecker) Check(df dataframe.DataFrame) (dataframe.DataFrame, models.CheckResult) {
	now := time.Now()

	out, err := schema.Check(df)
	if err != nil {
		result := models.Failed(SchemaCheck, models.KindSchema, err.Error())
		result.Err = err
		result.Duration = time.Since(now)
		return df, result
	}

	result := models.Passed(SchemaCheck, "schema satisfied")
	result.Duration = time.Since(now)
	return out, result
}
