package validator

import (
	"context"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/povarna/iris-pipeline/internal/checks"
	"github.com/povarna/iris-pipeline/internal/config"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/rs/zerolog"
)

// CheckRunner runs the ordered validation checks
type CheckRunner interface {
	Run(df dataframe.DataFrame) (dataframe.DataFrame, []models.CheckResult)
}

// ReportSink receives every finished report
type ReportSink interface {
	SaveReport(ctx context.Context, report models.ValidationReport) error
}

type Validator struct {
	runner CheckRunner
	sinks  []ReportSink
	logger *zerolog.Logger
}

func NewValidator(runner CheckRunner, logger *zerolog.Logger, sinks ...ReportSink) *Validator {
	return &Validator{
		runner: runner,
		sinks:  sinks,
		logger: logger,
	}
}

// NewDefault builds a validator running checks.DefaultCheckers with cfg.
func NewDefault(cfg *config.ValidationConfig, logger *zerolog.Logger, sinks ...ReportSink) *Validator {
	return NewValidator(checks.NewRunner(checks.DefaultCheckers(cfg)), logger, sinks...)
}

// Validate runs all checks against df. The cleaned frame is returned only
// when no check failed; otherwise the error is a *CheckError. The report is
// always populated.
func (v *Validator) Validate(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, models.ValidationReport, error) {
	return v.validate(ctx, uuid.NewString(), "", df)
}

// ValidateRequest parses the request CSV and validates it. A CSV that cannot
// be parsed fails the type check.
func (v *Validator) ValidateRequest(ctx context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error) {
	id := req.EventID
	if id == "" {
		id = uuid.NewString()
	}

	df, err := dataset.ReadCSVString(req.CSV)
	if err != nil {
		v.logger.Debug().Err(err).Str("id", id).Msg("request csv did not parse")
	}

	return v.validate(ctx, id, req.Source, df)
}

func (v *Validator) validate(ctx context.Context, id, source string, df dataframe.DataFrame) (dataframe.DataFrame, models.ValidationReport, error) {
	v.logger.Info().Str("id", id).Str("source", source).Msg("starting validation")

	report := models.ValidationReport{
		ID:        id,
		Source:    source,
		Checks:    []models.CheckResult{},
		CreatedAt: time.Now().UTC(),
	}
	if df.Err == nil {
		report.RowsIn = df.Nrow()
	}

	out, results := v.runner.Run(df)
	report.Checks = append(report.Checks, results...)
	report.Status = models.StatusPassed

	var checkErr *CheckError
	for _, res := range results {
		event := v.logger.Info()
		switch res.Status {
		case models.StatusWarning:
			event = v.logger.Warn()
			report.Warnings = append(report.Warnings, res.Reason)
			if report.Status == models.StatusPassed {
				report.Status = models.StatusWarning
			}
		case models.StatusFailed:
			event = v.logger.Error()
			report.Status = models.StatusFailed
			if checkErr == nil {
				checkErr = newCheckError(res)
			}
		}
		event.
			Str("id", id).
			Str("check", res.Name).
			Str("status", string(res.Status)).
			Dur("duration", res.Duration).
			Msg(res.Reason)

		switch res.Name {
		case checks.DuplicateCheck:
			report.DuplicatesRemoved = res.RowsRemoved
		case checks.CategoryCheck:
			report.UnknownRemoved = res.RowsRemoved
		}
	}

	if len(results) == 0 {
		checkErr = &CheckError{Check: "validation", Kind: models.KindType, Reason: "no checks were run"}
		report.Status = models.StatusFailed
	}

	if checkErr != nil {
		report.Error = checkErr.Error()
		v.emit(ctx, report)
		return dataframe.DataFrame{}, report, checkErr
	}

	report.RowsOut = out.Nrow()
	v.logger.
		Info().
		Str("id", id).
		Str("status", string(report.Status)).
		Int("rowsIn", report.RowsIn).
		Int("rowsOut", report.RowsOut).
		Msg("validation complete")

	v.emit(ctx, report)
	return out, report, nil
}

func (v *Validator) emit(ctx context.Context, report models.ValidationReport) {
	for _, sink := range v.sinks {
		if err := sink.SaveReport(ctx, report); err != nil {
			v.logger.Warn().Err(err).Str("id", report.ID).Msg("failed to forward report")
		}
	}
}
