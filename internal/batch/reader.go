package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/rs/zerolog"
)

// maxLineSize bounds a single JSONL record; each one embeds a whole CSV.
const maxLineSize = 16 * 1024 * 1024

type InputRecord struct {
	LineNumber int
	Request    models.ValidationRequest
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams one record per non-blank line. Lines that do not decode
// are delivered with Error set. The channel closes at EOF or when ctx is
// cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			record := InputRecord{LineNumber: line}
			if err := json.Unmarshal([]byte(text), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", line, err)
				r.logger.Warn().Int("line", line).Err(err).Msg("Invalid record")
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", line).Msg("Failed to read input")
			select {
			case out <- InputRecord{LineNumber: line + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
