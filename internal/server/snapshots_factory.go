package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/app/games"
	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	"github.com/preston-bernstein/prediction-service/internal/config"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/jobs"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
	"github.com/preston-bernstein/prediction-service/internal/snapshots"
)

type snapshotComponents struct {
	snapshotter *snapshots.Snapshotter
	scheduler   Scheduler
}

// stateSource reads games from the game service and the user from the ledger.
type stateSource struct {
	games  *games.Service
	ledger predictions.Ledger
}

func (s stateSource) ListGames() []domaingames.Game { return s.games.Games() }

func (s stateSource) User(ctx context.Context) (users.User, error) { return s.ledger.User(ctx) }

func buildSnapshots(cfg config.SnapshotConfig, source snapshots.Source, logger *slog.Logger, recorder *metrics.Recorder) (snapshotComponents, error) {
	if !cfg.Enabled {
		return snapshotComponents{}, nil
	}
	writer := snapshots.NewWriter(cfg.Dir, cfg.RetentionDays)
	snapshotter := snapshots.NewSnapshotter(source, writer, logger)

	scheduler := jobs.NewScheduler(logger, recorder)
	err := scheduler.Add(metrics.JobSnapshot, cfg.Schedule, func(ctx context.Context) error {
		_, err := snapshotter.Capture(ctx)
		return err
	})
	if err != nil {
		return snapshotComponents{}, err
	}
	return snapshotComponents{snapshotter: snapshotter, scheduler: scheduler}, nil
}
