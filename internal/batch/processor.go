package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/rs/zerolog"
)

type RequestValidator interface {
	ValidateRequest(ctx context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error)
}

type Processor struct {
	validator RequestValidator
	workers   int
	logger    *zerolog.Logger
}

func NewProcessor(validator RequestValidator, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{validator: validator, workers: workers, logger: logger}
}

// Process validates records with a fixed pool of workers. Output order is
// not preserved. Records that failed to parse become failed reports.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan models.ValidationReport {
	jobs := make(chan InputRecord)
	results := make(chan models.ValidationReport, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for record := range jobs {
				report := p.process(ctx, record)
				p.logger.Debug().Int("worker", worker).Str("id", report.ID).Str("status", string(report.Status)).Msg("Record processed")

				select {
				case results <- report:
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-ctx.Done():
				p.logger.Warn().Msg("Batch cancelled, skipping remaining records")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) process(ctx context.Context, record InputRecord) models.ValidationReport {
	if record.Error != nil {
		id := record.Request.EventID
		if id == "" {
			id = fmt.Sprintf("line-%d", record.LineNumber)
		}
		return models.ValidationReport{
			ID:        id,
			Status:    models.StatusFailed,
			Checks:    []models.CheckResult{},
			Error:     record.Error.Error(),
			CreatedAt: time.Now().UTC(),
		}
	}

	_, report, _ := p.validator.ValidateRequest(ctx, record.Request)
	return report
}
