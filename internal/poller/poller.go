package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
)

const defaultInterval = 10 * time.Second

// Refresher reloads remote state once.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller calls a Refresher on an interval. Failures are recorded in Status
// and never stop the loop.
type Poller struct {
	refresher Refresher
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	onCycle   func(error)

	ticker   *time.Ticker
	done     chan struct{}
	trigger  chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(refresher Refresher, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		refresher: refresher,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		done:      make(chan struct{}),
		trigger:   make(chan struct{}, 1),
	}
}

// OnCycle registers fn to run after every refresh attempt. Call before Start.
func (p *Poller) OnCycle(fn func(error)) {
	p.onCycle = fn
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		logging.Info(p.logger, "poller started", logging.FieldDurationMS, p.interval.Milliseconds())
		p.refreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.refreshOnce(ctx)
			case <-p.trigger:
				p.refreshOnce(ctx)
			}
		}
	}()
}

// Trigger requests an immediate refresh. Extra requests while one is queued are dropped.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Stop halts the polling loop and waits for an in-flight refresh to return.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) refreshOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	err := p.refresher.Refresh(ctx)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if err != nil {
		logging.Warn(p.logger, "refresh failed",
			"error", err,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
		p.recordFailure(err, start)
	} else {
		p.recordSuccess(start)
	}
	if p.onCycle != nil {
		p.onCycle(err)
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
