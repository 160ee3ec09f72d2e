package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestWatcher_RunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iris.csv")
	if err := os.WriteFile(path, []byte("a\n1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	calls := make(chan struct{}, 4)
	w, err := New(path, func(ctx context.Context) error {
		calls <- struct{}{}
		return nil
	}, newTestLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(path, []byte("a\n2\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iris.csv")

	var calls atomic.Int32
	w, err := New(path, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("should not run")
	}, newTestLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	if calls.Load() != 0 {
		t.Errorf("calls: %d, want 0", calls.Load())
	}
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{path: "/data/raw/iris.csv"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "write", event: fsnotify.Event{Name: "/data/raw/iris.csv", Op: fsnotify.Write}, want: true},
		{name: "create", event: fsnotify.Event{Name: "/data/raw/iris.csv", Op: fsnotify.Create}, want: true},
		{name: "chmod", event: fsnotify.Event{Name: "/data/raw/iris.csv", Op: fsnotify.Chmod}, want: false},
		{name: "sibling", event: fsnotify.Event{Name: "/data/raw/other.csv", Op: fsnotify.Write}, want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := w.relevant(test.event); got != test.want {
				t.Errorf("relevant: %v, want %v", got, test.want)
			}
		})
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New("/nonexistent/dir/iris.csv", nil, newTestLogger()); err == nil {
		t.Error("expected error for missing directory")
	}
}
