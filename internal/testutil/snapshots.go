package testutil

import (
	"errors"
	"testing"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/snapshots"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T, retention int) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir(), retention)
}

// WriteSnapshot writes a state snapshot holding one game and user for the date.
func WriteSnapshot(t *testing.T, w *snapshots.Writer, date string, user users.User) {
	t.Helper()
	if err := writeSnapshotPayload(w, date, user); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func writeSnapshotPayload(w *snapshots.Writer, date string, user users.User) error {
	if w == nil {
		return errors.New("nil snapshot writer")
	}
	return w.WriteStateSnapshot(date, snapshots.State{
		TakenAt: time.Now().UTC(),
		Games:   []domaingames.Game{SampleGame("snap-" + date)},
		User:    user,
	})
}

// SnapshotPath returns the expected file path for a snapshot date.
func SnapshotPath(w *snapshots.Writer, date string) string {
	return snapshots.StateSnapshotPath(w.BasePath(), date)
}
