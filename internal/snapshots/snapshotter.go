package snapshots

import (
	"context"
	"log/slog"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/timeutil"
)

// Source supplies the state to capture.
type Source interface {
	ListGames() []domaingames.Game
	User(ctx context.Context) (users.User, error)
}

// Snapshotter captures the current state into a Writer.
type Snapshotter struct {
	source Source
	writer *Writer
	logger *slog.Logger
	now    func() time.Time
}

// NewSnapshotter builds a Snapshotter.
func NewSnapshotter(source Source, writer *Writer, logger *slog.Logger) *Snapshotter {
	return &Snapshotter{source: source, writer: writer, logger: logger, now: time.Now}
}

// Capture writes today's snapshot and returns its date.
func (s *Snapshotter) Capture(ctx context.Context) (string, error) {
	user, err := s.source.User(ctx)
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	date := timeutil.FormatDate(now)
	state := State{
		TakenAt: now,
		Games:   s.source.ListGames(),
		User:    user,
	}
	if err := s.writer.WriteStateSnapshot(date, state); err != nil {
		return "", err
	}
	logging.Info(s.logger, "state snapshot written",
		logging.FieldDate, date,
		logging.FieldCount, len(state.Games),
	)
	return date, nil
}
