package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Summary aggregates the reports seen by a Writer.
type Summary struct {
	Total     int            `json:"total"`
	Passed    int            `json:"passed"`
	Warning   int            `json:"warning"`
	Failed    int            `json:"failed"`
	ByKind    map[string]int `json:"failures_by_kind,omitempty"`
	FailedIDs []string       `json:"failed_ids,omitempty"`
}

func (s *Summary) add(report models.ValidationReport) {
	s.Total++
	switch report.Status {
	case models.StatusPassed:
		s.Passed++
	case models.StatusWarning:
		s.Warning++
	default:
		s.Failed++
		s.FailedIDs = append(s.FailedIDs, report.ID)
		kind := "parse_error"
		if failed, ok := report.Failure(); ok {
			kind = string(failed.Kind)
		}
		if s.ByKind == nil {
			s.ByKind = map[string]int{}
		}
		s.ByKind[kind]++
	}
}

// Writer emits one JSON report per line (jsonl) or, on Close, a single
// summary document (summary). The summary is tracked in both modes.
type Writer struct {
	w       io.Writer
	format  string
	enc     *json.Encoder
	summary Summary
	logger  *zerolog.Logger
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSONL && format != FormatSummary {
		return nil, fmt.Errorf("unsupported format %q, want %s or %s", format, FormatJSONL, FormatSummary)
	}
	return &Writer{w: w, format: format, enc: json.NewEncoder(w), logger: logger}, nil
}

func (w *Writer) Write(report models.ValidationReport) error {
	w.summary.add(report)
	if w.format != FormatJSONL {
		return nil
	}
	if err := w.enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report %s: %w", report.ID, err)
	}
	return nil
}

func (w *Writer) Summary() Summary {
	s := w.summary
	sort.Strings(s.FailedIDs)
	return s
}

// Close flushes the summary document in summary mode.
func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.Summary()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	w.logger.Debug().Int("total", w.summary.Total).Msg("Summary written")
	return nil
}
