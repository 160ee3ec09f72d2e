package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/povarna/iris-pipeline/internal/models"
)

const DefaultListLimit = 20

const createReportsTable = `
CREATE TABLE IF NOT EXISTS validation_reports (
	id                 TEXT PRIMARY KEY,
	source             TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL,
	rows_in            INTEGER NOT NULL,
	rows_out           INTEGER NOT NULL,
	duplicates_removed INTEGER NOT NULL,
	unknown_removed    INTEGER NOT NULL,
	checks             JSONB NOT NULL,
	warnings           JSONB NOT NULL,
	error              TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL
)`

func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createReportsTable); err != nil {
		return fmt.Errorf("failed to create validation_reports table: %w", err)
	}
	return nil
}

// SaveReport upserts a report by ID.
func (db *DB) SaveReport(ctx context.Context, report models.ValidationReport) error {
	row, err := newReportRow(report)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO validation_reports
		(id, source, status, rows_in, rows_out, duplicates_removed, unknown_removed, checks, warnings, error, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		source = EXCLUDED.source,
		status = EXCLUDED.status,
		rows_in = EXCLUDED.rows_in,
		rows_out = EXCLUDED.rows_out,
		duplicates_removed = EXCLUDED.duplicates_removed,
		unknown_removed = EXCLUDED.unknown_removed,
		checks = EXCLUDED.checks,
		warnings = EXCLUDED.warnings,
		error = EXCLUDED.error,
		created_at = EXCLUDED.created_at`

	_, err = db.Pool.Exec(ctx, query,
		report.ID, report.Source, string(report.Status),
		report.RowsIn, report.RowsOut, report.DuplicatesRemoved, report.UnknownRemoved,
		row.checks, row.warnings, report.Error, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// ListReports returns the most recent reports, newest first.
func (db *DB) ListReports(ctx context.Context, limit int) ([]models.ValidationReport, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
	SELECT id, source, status, rows_in, rows_out, duplicates_removed, unknown_removed, checks, warnings, error, created_at
	FROM validation_reports
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ValidationReport{}
	for rows.Next() {
		var (
			report           models.ValidationReport
			status           string
			checks, warnings []byte
			createdAt        time.Time
		)
		if err := rows.Scan(
			&report.ID, &report.Source, &status,
			&report.RowsIn, &report.RowsOut, &report.DuplicatesRemoved, &report.UnknownRemoved,
			&checks, &warnings, &report.Error, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		report.Status = models.Status(status)
		report.CreatedAt = createdAt.UTC()
		if err := decodeReportRow(&report, checks, warnings); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

type reportRow struct {
	checks   string
	warnings string
}

func newReportRow(report models.ValidationReport) (reportRow, error) {
	checks := report.Checks
	if checks == nil {
		checks = []models.CheckResult{}
	}
	warnings := report.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	checksJSON, err := json.Marshal(checks)
	if err != nil {
		return reportRow{}, fmt.Errorf("failed to encode checks: %w", err)
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return reportRow{}, fmt.Errorf("failed to encode warnings: %w", err)
	}
	return reportRow{checks: string(checksJSON), warnings: string(warningsJSON)}, nil
}

func decodeReportRow(report *models.ValidationReport, checks, warnings []byte) error {
	if err := json.Unmarshal(checks, &report.Checks); err != nil {
		return fmt.Errorf("failed to decode checks for %s: %w", report.ID, err)
	}
	if err := json.Unmarshal(warnings, &report.Warnings); err != nil {
		return fmt.Errorf("failed to decode warnings for %s: %w", report.ID, err)
	}
	return nil
}
