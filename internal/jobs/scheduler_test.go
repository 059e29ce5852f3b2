package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/prediction-service/internal/metrics"
	"github.com/preston-bernstein/prediction-service/internal/testutil"
)

func TestAddRejectsBadSpecAndDuplicates(t *testing.T) {
	s := NewScheduler(nil, nil)
	noop := func(context.Context) error { return nil }

	if err := s.Add("snap", "not a cron", noop); err == nil {
		t.Fatal("expected invalid spec error")
	}
	if err := s.Add("snap", "@every 5m", noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add("snap", "@every 1m", noop); err == nil {
		t.Fatal("expected duplicate job error")
	}
	if s.Entries() != 1 {
		t.Fatalf("expected 1 entry, got %d", s.Entries())
	}
}

func TestRunNowRecordsMetrics(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	s := NewScheduler(logger, rec)
	boom := errors.New("disk full")
	var calls atomic.Int32
	fail := true

	if err := s.Add(metrics.JobSnapshot, "@every 1h", func(context.Context) error {
		calls.Add(1)
		if fail {
			return boom
		}
		return nil
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.RunNow(context.Background(), metrics.JobSnapshot); !errors.Is(err, boom) {
		t.Fatalf("expected task error, got %v", err)
	}
	fail = false
	if err := s.RunNow(context.Background(), metrics.JobSnapshot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := rec.Job(metrics.JobSnapshot)
	if snap.Runs != 2 || snap.Errors != 1 || calls.Load() != 2 {
		t.Fatalf("unexpected job stats %+v calls=%d", snap, calls.Load())
	}
	if buf.Len() == 0 {
		t.Fatal("expected job logs")
	}
	if err := s.RunNow(context.Background(), "missing"); err == nil {
		t.Fatal("expected unknown job error")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := NewScheduler(nil, nil)
	if err := s.Add("tick", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}

	s.Start(context.Background())
	s.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	s.Start(context.Background())
}

func TestStopCancelsRunningTaskContext(t *testing.T) {
	s := NewScheduler(nil, nil)
	started := make(chan struct{})
	var once sync.Once
	if err := s.Add("slow", "@every 1s", func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Start(context.Background())

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("expected scheduled task to fire")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("expected stop to wait for cancelled task, got %v", err)
	}
}
