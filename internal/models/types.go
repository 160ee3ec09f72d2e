package models

import (
	"time"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindType              ErrorKind = "type_error"
	KindSchema            ErrorKind = "schema_validation_error"
	KindOutlier           ErrorKind = "outlier_error"
	KindDistribution      ErrorKind = "distribution_error"
	KindDegenerateFeature ErrorKind = "degenerate_feature_error"
)

// Input message

type ValidationRequest struct {
	EventID string `json:"event_id" jsonschema:"unique request identifier"`
	Source  string `json:"source,omitempty" jsonschema:"where the data came from, e.g. a file path or URL"`
	CSV     string `json:"csv" jsonschema:"CSV document with a header row"`
}

// One check's output
type CheckResult struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Kind        ErrorKind     `json:"kind,omitempty"`
	Reason      string        `json:"reason"`
	RowsRemoved int           `json:"rows_removed,omitempty"`
	Duration    time.Duration `json:"duration_ns"`

	// Err carries the underlying cause of a failed check.
	Err error `json:"-"`
}

func Passed(name, reason string) CheckResult {
	return CheckResult{Name: name, Status: StatusPassed, Reason: reason}
}

func PassedWithWarning(name, reason string) CheckResult {
	return CheckResult{Name: name, Status: StatusWarning, Reason: reason}
}

func Failed(name string, kind ErrorKind, reason string) CheckResult {
	return CheckResult{Name: name, Status: StatusFailed, Kind: kind, Reason: reason}
}

// Final output emitted to sinks and transports
type ValidationReport struct {
	ID                string        `json:"id"`
	Source            string        `json:"source,omitempty"`
	Status            Status        `json:"status"`
	RowsIn            int           `json:"rows_in"`
	RowsOut           int           `json:"rows_out"`
	DuplicatesRemoved int           `json:"duplicates_removed"`
	UnknownRemoved    int           `json:"unknown_removed"`
	Checks            []CheckResult `json:"checks"`
	Warnings          []string      `json:"warnings,omitempty"`
	Error             string        `json:"error,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Failure returns the first failed check, if any.
func (r ValidationReport) Failure() (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Status == StatusFailed {
			return c, true
		}
	}
	return CheckResult{}, false
}
