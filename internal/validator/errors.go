package validator

import (
	"errors"
	"fmt"

	"github.com/povarna/iris-pipeline/internal/models"
)

var (
	ErrNotTabular        = errors.New("input is not tabular")
	ErrSchemaValidation  = errors.New("schema validation failed")
	ErrOutlier           = errors.New("outlier detected")
	ErrDistribution      = errors.New("class distribution out of range")
	ErrDegenerateFeature = errors.New("degenerate feature")
)

// CheckError is returned when a validation step fails hard. It unwraps to
// the sentinel for its kind and to the underlying cause, if any.
type CheckError struct {
	Check  string
	Kind   models.ErrorKind
	Reason string
	cause  error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Check, e.Reason)
}

func (e *CheckError) Unwrap() []error {
	errs := []error{sentinelFor(e.Kind)}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func newCheckError(result models.CheckResult) *CheckError {
	return &CheckError{
		Check:  result.Name,
		Kind:   result.Kind,
		Reason: result.Reason,
		cause:  result.Err,
	}
}

func sentinelFor(kind models.ErrorKind) error {
	switch kind {
	case models.KindType:
		return ErrNotTabular
	case models.KindSchema:
		return ErrSchemaValidation
	case models.KindOutlier:
		return ErrOutlier
	case models.KindDistribution:
		return ErrDistribution
	case models.KindDegenerateFeature:
		return ErrDegenerateFeature
	default:
		return errors.New(string(kind))
	}
}
