package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/povarna/iris-pipeline/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeClient struct {
	groupErr error
	acked    []string
	added    []*redis.XAddArgs
}

func (f *fakeClient) XGroupCreateMkStream(_ context.Context, _, _, _ string) *redis.StatusCmd {
	return redis.NewStatusResult("OK", f.groupErr)
}

func (f *fakeClient) XReadGroup(_ context.Context, _ *redis.XReadGroupArgs) *redis.XStreamSliceCmd {
	return redis.NewXStreamSliceCmdResult(nil, redis.Nil)
}

func (f *fakeClient) XAck(_ context.Context, _, _ string, ids ...string) *redis.IntCmd {
	f.acked = append(f.acked, ids...)
	return redis.NewIntResult(int64(len(ids)), nil)
}

func (f *fakeClient) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1700000000000-0", nil)
}

type fakeValidator struct {
	calls []models.ValidationRequest
	err   error
}

func (f *fakeValidator) ValidateRequest(_ context.Context, req models.ValidationRequest) (dataframe.DataFrame, models.ValidationReport, error) {
	f.calls = append(f.calls, req)
	status := models.StatusPassed
	if f.err != nil {
		status = models.StatusFailed
	}
	return dataframe.DataFrame{}, models.ValidationReport{ID: req.EventID, Status: status}, f.err
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newTestConsumer(client *fakeClient, v *fakeValidator) *Consumer {
	cfg := NewRedisStreamConfig("localhost:6379", "", "requests", "reports", "group", "")
	return NewConsumer(client, cfg, v, NewPublisher(client, cfg.ReportStream, newTestLogger()), newTestLogger())
}

func TestConsumer_Process(t *testing.T) {
	body, _ := json.Marshal(models.ValidationRequest{EventID: "evt-1", CSV: "a\n1\n"})

	tests := []struct {
		name          string
		values        map[string]any
		validatorErr  error
		wantValidated int
		wantPublished int
	}{
		{
			name:          "valid request",
			values:        map[string]any{PayloadField: string(body)},
			wantValidated: 1,
			wantPublished: 1,
		},
		{
			name:          "failed validation still publishes",
			values:        map[string]any{PayloadField: string(body)},
			validatorErr:  errors.New("balance-check failed"),
			wantValidated: 1,
			wantPublished: 1,
		},
		{
			name:   "missing payload",
			values: map[string]any{"other": "x"},
		},
		{
			name:   "bad json",
			values: map[string]any{PayloadField: "{not json"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := &fakeClient{}
			v := &fakeValidator{err: test.validatorErr}
			c := newTestConsumer(client, v)

			c.process(context.Background(), redis.XMessage{ID: "1-0", Values: test.values})

			if len(client.acked) != 1 || client.acked[0] != "1-0" {
				t.Errorf("acked: %v, want [1-0]", client.acked)
			}
			if len(v.calls) != test.wantValidated {
				t.Errorf("validated: %d, want %d", len(v.calls), test.wantValidated)
			}
			if len(client.added) != test.wantPublished {
				t.Errorf("published: %d, want %d", len(client.added), test.wantPublished)
			}
		})
	}
}

func TestConsumer_Process_DefaultsEventID(t *testing.T) {
	client := &fakeClient{}
	v := &fakeValidator{}
	c := newTestConsumer(client, v)

	c.process(context.Background(), redis.XMessage{ID: "42-0", Values: map[string]any{PayloadField: `{"csv":"a\n1\n"}`}})

	if len(v.calls) != 1 || v.calls[0].EventID != "42-0" {
		t.Errorf("calls: %+v, want event id 42-0", v.calls)
	}
}

func TestConsumer_Setup(t *testing.T) {
	tests := []struct {
		name     string
		groupErr error
		wantErr  bool
	}{
		{name: "created", groupErr: nil},
		{name: "already exists", groupErr: errors.New("BUSYGROUP Consumer Group name already exists")},
		{name: "other error", groupErr: errors.New("NOAUTH Authentication required"), wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestConsumer(&fakeClient{groupErr: test.groupErr}, &fakeValidator{})
			err := c.Setup(context.Background())
			if (err != nil) != test.wantErr {
				t.Errorf("Setup() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestConsumer(&fakeClient{}, &fakeValidator{})
	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	stopped := false
	c.OnStop(func() error { stopped = true; return nil })
	if err := c.Stop(); err != nil || !stopped {
		t.Errorf("Stop() error = %v, stopped = %v", err, stopped)
	}
}

func TestPublisher_SaveReport(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "reports", newTestLogger())

	report := models.ValidationReport{ID: "r1", Status: models.StatusWarning, Warnings: []string{"removed 1 duplicate rows"}}
	if err := p.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	if len(client.added) != 1 {
		t.Fatalf("added: %d, want 1", len(client.added))
	}
	args := client.added[0]
	if args.Stream != "reports" {
		t.Errorf("stream: %s, want reports", args.Stream)
	}

	values := args.Values.(map[string]any)
	var decoded models.ValidationReport
	if err := json.Unmarshal([]byte(values[PayloadField].(string)), &decoded); err != nil {
		t.Fatalf("payload is not a report: %v", err)
	}
	if decoded.ID != "r1" || decoded.Status != models.StatusWarning {
		t.Errorf("decoded: %+v", decoded)
	}
}
