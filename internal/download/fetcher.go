package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"github.com/rs/zerolog"
)

const DefaultURL = "https://raw.githubusercontent.com/mwaskom/seaborn-data/master/iris.csv"

const defaultTimeout = 30 * time.Second

type Fetcher struct {
	client *http.Client
	logger *zerolog.Logger
}

func NewFetcher(client *http.Client, logger *zerolog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch downloads url and parses the body as CSV. Any non-2xx response is
// an error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (dataframe.DataFrame, error) {
	now := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return dataframe.DataFrame{}, fmt.Errorf("fetch %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}

	df, err := dataset.ReadCSV(resp.Body)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	f.logger.Info().
		Str("url", url).
		Int("rows", df.Nrow()).
		Int("cols", df.Ncol()).
		Dur("duration", time.Since(now)).
		Msg("Dataset downloaded")
	return df, nil
}
