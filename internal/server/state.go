package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	"github.com/preston-bernstein/prediction-service/internal/config"
	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/seed"
	"github.com/preston-bernstein/prediction-service/internal/snapshots"
	"github.com/preston-bernstein/prediction-service/internal/store"
)

var connectPostgres = store.ConnectPostgres

type stateComponents struct {
	memory *store.MemoryStore
	ledger predictions.Ledger
	close  func() error
}

// buildState loads seed data into the game store and the ledger. When
// DATABASE_URL is set the ledger lives in Postgres and the seed user is
// only inserted if absent.
func buildState(ctx context.Context, cfg config.Config, logger *slog.Logger) (stateComponents, error) {
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return stateComponents{}, err
	}

	memory := store.NewMemoryStore()
	memory.SetGames(data.Games)
	memory.SetUser(data.User)

	usingDB := cfg.DatabaseURL != ""
	if cfg.Snapshots.Restore {
		restoreSnapshot(cfg.Snapshots.Dir, memory, !usingDB, logger)
	}

	if !usingDB {
		logging.Info(logger, "using in-memory ledger", logging.FieldUserID, data.User.ID)
		return stateComponents{memory: memory, ledger: memory, close: func() error { return nil }}, nil
	}

	db, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return stateComponents{}, err
	}
	ledger := store.NewPostgresLedger(db, data.User.ID)
	if err := ledger.EnsureSchema(ctx); err != nil {
		_ = ledger.Close()
		return stateComponents{}, err
	}
	if err := ledger.Seed(ctx, data.User); err != nil {
		_ = ledger.Close()
		return stateComponents{}, fmt.Errorf("seed ledger: %w", err)
	}
	logging.Info(logger, "using postgres ledger", logging.FieldUserID, data.User.ID)
	return stateComponents{memory: memory, ledger: ledger, close: ledger.Close}, nil
}

// restoreSnapshot replaces seeded games, and the user when withUser is set,
// with the newest snapshot on disk.
func restoreSnapshot(dir string, memory *store.MemoryStore, withUser bool, logger *slog.Logger) {
	state, err := snapshots.NewFSStore(dir).Latest()
	if err != nil {
		if !errors.Is(err, snapshots.ErrNoSnapshot) {
			logging.Warn(logger, "snapshot restore failed, using seed", "error", err)
		}
		return
	}
	memory.SetGames(state.Games)
	if withUser && state.User.ID != "" {
		memory.SetUser(state.User)
	}
	logging.Info(logger, "restored snapshot",
		logging.FieldDate, state.Date,
		logging.FieldCount, len(state.Games),
	)
}
