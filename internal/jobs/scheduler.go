// Package jobs runs background tasks on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

// Scheduler runs named tasks on cron specs ("@every 5m", "0 * * * *").
// Runs of the same task never overlap.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *metrics.Recorder
	tasks   map[string]Task

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// NewScheduler builds an idle scheduler in UTC.
func NewScheduler(logger *slog.Logger, recorder *metrics.Recorder) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger:  logger,
		metrics: recorder,
		tasks:   make(map[string]Task),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers task under name on spec.
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tasks[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(s.ctx, name, task) }); err != nil {
		return fmt.Errorf("schedule job %q with %q: %w", name, spec, err)
	}
	s.tasks[name] = task
	return nil
}

// RunNow executes a registered task immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	task, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return s.run(ctx, name, task)
}

// Start begins firing schedules; later calls are no-ops.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.cron.Start()
	logging.Info(logging.FromContext(ctx, s.logger), "scheduler started", logging.FieldCount, len(s.tasks))
}

// Stop halts schedules and waits for running tasks or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logging.Info(s.logger, "scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries reports how many schedules are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(ctx context.Context, name string, task Task) error {
	start := time.Now()
	err := task(ctx)
	duration := time.Since(start)
	s.metrics.RecordJobRun(name, duration, err)
	if err != nil {
		logging.Error(s.logger, "job failed", err, "job", name, logging.FieldDurationMS, duration.Milliseconds())
		return err
	}
	logging.Info(s.logger, "job complete", "job", name, logging.FieldDurationMS, duration.Milliseconds())
	return nil
}
