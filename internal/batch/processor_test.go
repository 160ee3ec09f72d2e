package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/iris-pipeline/internal/config"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/povarna/iris-pipeline/internal/validator"
)

func TestProcessor_Process(t *testing.T) {
	v := validator.NewDefault(config.DefaultValidationConfig(), newTestLogger())
	records := []InputRecord{
		{LineNumber: 1, Request: models.ValidationRequest{EventID: "missing-col", CSV: "sepal_length,species\n5.1,setosa\n"}},
		{LineNumber: 2, Request: models.ValidationRequest{EventID: "not-a-table", CSV: "\n"}},
		{LineNumber: 3, Error: errors.New("line 3: bad json")},
	}

	got := map[string]models.ValidationReport{}
	for report := range NewProcessor(v, 2, newTestLogger()).Process(context.Background(), records) {
		got[report.ID] = report
	}

	if len(got) != 3 {
		t.Fatalf("reports: %d, want 3", len(got))
	}
	tests := []struct {
		id   string
		kind models.ErrorKind
	}{
		{id: "missing-col", kind: models.KindSchema},
		{id: "not-a-table", kind: models.KindType},
	}
	for _, test := range tests {
		t.Run(test.id, func(t *testing.T) {
			failed, ok := got[test.id].Failure()
			if !ok || failed.Kind != test.kind {
				t.Errorf("failure: %+v, want kind %s", failed, test.kind)
			}
		})
	}
	if r := got["line-3"]; r.Status != models.StatusFailed || r.Error == "" {
		t.Errorf("parse error report: %+v", r)
	}
}

func TestProcessor_Cancelled(t *testing.T) {
	v := validator.NewDefault(config.DefaultValidationConfig(), newTestLogger())
	records := make([]InputRecord, 50)
	for i := range records {
		records[i] = InputRecord{LineNumber: i + 1, Request: models.ValidationRequest{CSV: "a\n1\n"}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range NewProcessor(v, 4, newTestLogger()).Process(ctx, records) {
		count++
	}
	if count == len(records) {
		t.Errorf("expected cancellation to skip records, processed all %d", count)
	}
}

func TestWriter(t *testing.T) {
	reports := []models.ValidationReport{
		{ID: "a", Status: models.StatusPassed},
		{ID: "b", Status: models.StatusWarning},
		{ID: "c", Status: models.StatusFailed, Checks: []models.CheckResult{models.Failed("balance-check", models.KindDistribution, "too few")}},
		{ID: "d", Status: models.StatusFailed, Error: "bad json"},
	}

	t.Run("jsonl", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, FormatJSONL, newTestLogger())
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		for _, r := range reports {
			if err := w.Write(r); err != nil {
				t.Fatalf("Write: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if lines := strings.Count(buf.String(), "\n"); lines != 4 {
			t.Errorf("lines: %d, want 4", lines)
		}
	})

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, FormatSummary, newTestLogger())
		if err != nil {
			t.Fatalf("NewWriter: %v", err)
		}
		for _, r := range reports {
			w.Write(r)
		}
		if buf.Len() != 0 {
			t.Errorf("summary mode wrote before Close: %q", buf.String())
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		var s Summary
		if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
			t.Fatalf("Failed to parse summary: %v", err)
		}
		if s.Total != 4 || s.Passed != 1 || s.Warning != 1 || s.Failed != 2 {
			t.Errorf("summary counts: %+v", s)
		}
		if s.ByKind[string(models.KindDistribution)] != 1 || s.ByKind["parse_error"] != 1 {
			t.Errorf("by kind: %v", s.ByKind)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		if _, err := NewWriter(&bytes.Buffer{}, "xml", newTestLogger()); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
