package server

import (
	"context"
	"os"
	"testing"

	"github.com/preston-bernstein/prediction-service/internal/app/games"
	"github.com/preston-bernstein/prediction-service/internal/config"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/jobs"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
	"github.com/preston-bernstein/prediction-service/internal/snapshots"
	"github.com/preston-bernstein/prediction-service/internal/store"
	"github.com/preston-bernstein/prediction-service/internal/testutil"
)

func snapshotsWriter(cfg config.Config) *snapshots.Writer {
	return snapshots.NewWriter(cfg.Snapshots.Dir, cfg.Snapshots.RetentionDays)
}

func testSource() stateSource {
	ms := store.NewMemoryStore()
	ms.SetGames([]domaingames.Game{testutil.SampleGame("g1")})
	ms.SetUser(testutil.SampleUser(10))
	return stateSource{games: games.NewService(ms), ledger: ms}
}

func TestBuildSnapshotsDisabled(t *testing.T) {
	components, err := buildSnapshots(config.SnapshotConfig{Enabled: false}, testSource(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if components.snapshotter != nil || components.scheduler != nil {
		t.Fatalf("expected no components when disabled")
	}
}

func TestBuildSnapshotsSchedulesCapture(t *testing.T) {
	cfg := testConfig(t)
	rec := metrics.NewRecorder()
	components, err := buildSnapshots(cfg.Snapshots, testSource(), nil, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sched, ok := components.scheduler.(*jobs.Scheduler)
	if !ok || sched.Entries() != 1 {
		t.Fatalf("expected one scheduled job, got %T", components.scheduler)
	}

	if err := sched.RunNow(context.Background(), metrics.JobSnapshot); err != nil {
		t.Fatalf("run snapshot job: %v", err)
	}
	if rec.Job(metrics.JobSnapshot).Runs != 1 {
		t.Fatalf("expected snapshot job run recorded")
	}
	entries, err := os.ReadDir(cfg.Snapshots.Dir + "/state")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one snapshot file, got %v err=%v", entries, err)
	}
}

func TestStateSourceReadsGamesAndLedger(t *testing.T) {
	src := testSource()
	if len(src.ListGames()) != 1 {
		t.Fatalf("expected one game")
	}
	u, err := src.User(context.Background())
	if err != nil || u.ID != testutil.SampleUserID {
		t.Fatalf("unexpected user %+v err=%v", u, err)
	}
}
