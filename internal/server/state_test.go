package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/preston-bernstein/prediction-service/internal/config"
	"github.com/preston-bernstein/prediction-service/internal/seed"
	"github.com/preston-bernstein/prediction-service/internal/store"
	"github.com/preston-bernstein/prediction-service/internal/testutil"
	"github.com/preston-bernstein/prediction-service/internal/timeutil"
)

func TestBuildStateDefaultsToMemoryLedger(t *testing.T) {
	state, err := buildState(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	if _, ok := state.ledger.(*store.MemoryStore); !ok {
		t.Fatalf("expected in-memory ledger, got %T", state.ledger)
	}
	if len(state.memory.ListGames()) != len(seed.Default().Games) {
		t.Fatalf("expected seeded games")
	}
	if err := state.close(); err != nil {
		t.Fatalf("expected no-op close, got %v", err)
	}
}

func TestBuildStateRestoresLatestSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshots.Restore = true
	w := snapshotsWriter(cfg)
	restored := testutil.SampleUser(42)
	restored.ID = seed.DefaultUserID
	today := time.Now().UTC()
	newest := timeutil.FormatDate(today)
	testutil.WriteSnapshot(t, w, timeutil.FormatDate(today.AddDate(0, 0, -1)), restored)
	testutil.WriteSnapshot(t, w, newest, restored)

	state, err := buildState(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	games := state.memory.ListGames()
	if len(games) != 1 || games[0].ID != "snap-"+newest {
		t.Fatalf("expected newest snapshot games, got %+v", games)
	}
	user, err := state.ledger.User(context.Background())
	if err != nil || user.Balance.String() != "42" {
		t.Fatalf("expected restored user, got %+v err=%v", user, err)
	}
}

func TestBuildStateRestoreWithoutSnapshotKeepsSeed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Snapshots.Restore = true
	state, err := buildState(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	if len(state.memory.ListGames()) != len(seed.Default().Games) {
		t.Fatalf("expected seed games when no snapshot exists")
	}
}

func TestBuildStateUsesPostgresWhenConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	orig := connectPostgres
	connectPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
		if dsn != "postgres://test" {
			t.Fatalf("unexpected dsn %q", dsn)
		}
		return db, nil
	}
	defer func() { connectPostgres = orig }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(seed.DefaultUserID, "demo", sqlmock.AnyArg(), 0, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	cfg := testConfig(t)
	cfg.DatabaseURL = "postgres://test"
	state, err := buildState(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	if _, ok := state.ledger.(*store.PostgresLedger); !ok {
		t.Fatalf("expected postgres ledger, got %T", state.ledger)
	}
	if err := state.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildStatePostgresSchemaFailureClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	orig := connectPostgres
	connectPostgres = func(context.Context, string) (*sql.DB, error) { return db, nil }
	defer func() { connectPostgres = orig }()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()

	cfg := testConfig(t)
	cfg.DatabaseURL = "postgres://test"
	if _, err := buildState(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected schema error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildStateConnectFailure(t *testing.T) {
	orig := connectPostgres
	connectPostgres = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }
	defer func() { connectPostgres = orig }()

	cfg := config.Config{DatabaseURL: "postgres://test"}
	if _, err := buildState(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected connect error")
	}
}
