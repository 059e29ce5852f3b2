package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/events"
)

// StubLedger is a test double for predictions.Ledger.
type StubLedger struct {
	UserVal  users.User
	UserErr  error
	PlaceErr error
	PingErr  error
	Placed   []users.Prediction
}

// User returns the configured user or error.
func (l *StubLedger) User(ctx context.Context) (users.User, error) {
	_ = ctx
	if l.UserErr != nil {
		return users.User{}, l.UserErr
	}
	return l.UserVal.Clone(), nil
}

// PlacePrediction records the prediction and returns the configured error when set.
func (l *StubLedger) PlacePrediction(ctx context.Context, userID string, p users.Prediction) (users.User, error) {
	_ = ctx
	_ = userID
	if l.PlaceErr != nil {
		return users.User{}, l.PlaceErr
	}
	l.Placed = append(l.Placed, p)
	l.UserVal.Predictions = append(l.UserVal.Predictions, p)
	return l.UserVal.Clone(), nil
}

// Ping returns PingErr.
func (l *StubLedger) Ping(ctx context.Context) error {
	_ = ctx
	return l.PingErr
}

// StubPublisher records published events.
type StubPublisher struct {
	mu     sync.Mutex
	Events []events.PredictionPlaced
	Err    error
	Closed bool
}

// PublishPredictionPlaced records the event and returns Err.
func (p *StubPublisher) PublishPredictionPlaced(ctx context.Context, e events.PredictionPlaced) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, e)
	return p.Err
}

// Close marks the publisher closed.
func (p *StubPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a copy of the recorded events.
func (p *StubPublisher) Published() []events.PredictionPlaced {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.PredictionPlaced(nil), p.Events...)
}

// StubRefresher is a test double for poller.Refresher.
type StubRefresher struct {
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// Refresh counts the call, closes Notify on first use and returns Err.
func (s *StubRefresher) Refresh(ctx context.Context) error {
	_ = ctx
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Err
}
