package snapshots

import (
	"context"
	"errors"
	"testing"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

type stubSource struct {
	games []domaingames.Game
	user  users.User
	err   error
}

func (s stubSource) ListGames() []domaingames.Game { return s.games }

func (s stubSource) User(context.Context) (users.User, error) { return s.user, s.err }

func TestSnapshotterCaptureWritesToday(t *testing.T) {
	w := newTestWriter(t, 7)
	src := stubSource{
		games: []domaingames.Game{{ID: "g1"}},
		user:  users.User{ID: "user1", Balance: money.New(42)},
	}
	s := NewSnapshotter(src, w, nil)
	s.now = func() time.Time { return fixedNow }

	date, err := s.Capture(context.Background())
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if date != "2024-03-10" {
		t.Fatalf("expected 2024-03-10, got %s", date)
	}
	state, err := NewFSStore(w.BasePath()).LoadState(date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !state.TakenAt.Equal(fixedNow) || !state.User.Balance.Equal(money.New(42)) {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSnapshotterCapturePropagatesSourceError(t *testing.T) {
	boom := errors.New("ledger down")
	s := NewSnapshotter(stubSource{err: boom}, newTestWriter(t, 7), nil)
	if _, err := s.Capture(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}
