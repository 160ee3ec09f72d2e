package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher calls OnChange after the watched file is written or recreated.
// Bursts of events within Debounce collapse into one call.
type Watcher struct {
	path     string
	onChange func(ctx context.Context) error
	watcher  *fsnotify.Watcher
	Debounce time.Duration
	logger   *zerolog.Logger
}

// New watches the parent directory of path so editors that replace the
// file on save are still seen.
func New(path string, onChange func(ctx context.Context) error, logger *zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		watcher:  fw,
		Debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled or the watcher is closed. Errors from
// OnChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.logger.Info().Str("file", w.path).Msg("Watching for changes")

	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("Watch loop stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			timer.Reset(w.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("File watcher error")

		case <-timer.C:
			start := time.Now()
			if err := w.onChange(ctx); err != nil {
				w.logger.Error().Err(err).Str("file", w.path).Msg("Re-run failed")
				continue
			}
			w.logger.Info().Dur("duration", time.Since(start)).Msg("Re-run complete")
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
