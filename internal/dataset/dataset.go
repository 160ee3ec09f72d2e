package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NullTokens are the cell values treated as missing.
var NullTokens = []string{"", "NA", "NaN", "nan", "null", "None", "<nil>"}

// ReadCSV loads a CSV document with a header row. Every column is kept as
// a string series so that type coercion is left to the schema checker.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NullTokens),
	)
	if df.Err != nil {
		return df, fmt.Errorf("failed to read csv: %w", df.Err)
	}
	return df, nil
}

func ReadCSVString(s string) (dataframe.DataFrame, error) {
	return ReadCSV(strings.NewReader(s))
}

func LoadFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// WriteFile writes df as CSV to path, creating parent directories.
func WriteFile(df dataframe.DataFrame, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write csv %s: %w", path, err)
	}
	return nil
}

func ToCSVString(df dataframe.DataFrame) (string, error) {
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// StripColumnWhitespace returns a copy of df whose column names have
// leading and trailing whitespace removed.
func StripColumnWhitespace(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Err != nil || df.Ncol() == 0 {
		return df
	}

	out := df.Copy()
	for _, name := range df.Names() {
		trimmed := strings.TrimSpace(name)
		if trimmed == name {
			continue
		}
		out = out.Rename(trimmed, name)
	}
	return out
}

// DropDuplicates removes exact duplicate rows, keeping the first
// occurrence. It returns the de-duplicated copy and the number of rows
// dropped.
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	records := df.Records()
	if len(records) <= 1 {
		return df.Copy(), 0
	}

	seen := make(map[string]struct{}, len(records)-1)
	keep := make([]int, 0, len(records)-1)
	for i, row := range records[1:] {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	dropped := df.Nrow() - len(keep)
	if dropped == 0 {
		return df.Copy(), 0
	}
	return df.Subset(keep), dropped
}

// rowKey builds a comparison key where numeric cells compare by value,
// so "5.1" and "5.10" are the same observation. Other cells compare
// verbatim.
func rowKey(row []string) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			cell = strconv.FormatFloat(f, 'g', -1, 64)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "\x1f")
}

func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNull reports whether a raw cell value is one of NullTokens.
func IsNull(v string) bool {
	v = strings.TrimSpace(v)
	for _, tok := range NullTokens {
		if v == tok {
			return true
		}
	}
	return false
}
