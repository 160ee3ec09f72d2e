package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		rows    int
	}{
		{
			name:   "ok",
			status: http.StatusOK,
			body:   "sepal_length,sepal_width,petal_length,petal_width,species\n5.1,3.5,1.4,0.2,setosa\n4.9,3.0,1.4,0.2,setosa\n",
			rows:   2,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    "404: Not Found",
			wantErr: true,
		},
		{
			name:    "empty body",
			status:  http.StatusOK,
			body:    "",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			}))
			defer server.Close()

			df, err := NewFetcher(server.Client(), newTestLogger()).Fetch(context.Background(), server.URL)
			if (err != nil) != test.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, test.wantErr)
			}
			if !test.wantErr && df.Nrow() != test.rows {
				t.Errorf("rows: %d, want %d", df.Nrow(), test.rows)
			}
		})
	}
}

func TestFetcher_Fetch_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher(nil, newTestLogger()).Fetch(ctx, server.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}
