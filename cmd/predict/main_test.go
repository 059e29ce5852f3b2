package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	httpserver "github.com/preston-bernstein/prediction-service/internal/http"
	"github.com/preston-bernstein/prediction-service/internal/http/handlers"
	"github.com/preston-bernstein/prediction-service/internal/testutil"
)

func newTestService(t *testing.T, balance int64) *httptest.Server {
	t.Helper()
	closed := testutil.SampleGame("g2")
	closed.Status = domaingames.StatusFinal
	gamesSvc := testutil.NewServiceWithGames([]domaingames.Game{testutil.SampleGame("g1"), closed})
	predictionSvc, _ := testutil.NewPredictionService(testutil.SampleUser(balance))
	srv := httptest.NewServer(httpserver.NewRouter(handlers.NewHandler(gamesSvc, predictionSvc, nil), nil))
	t.Cleanup(srv.Close)
	return srv
}

func setClientEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PREDICT_API_URL", apiURL)
	t.Setenv("PREDICT_STORE_DIR", dir)
	t.Setenv("PREDICT_REDIS_ADDR", "")
	t.Setenv("PREDICT_RETRY_BACKOFF", "1ms")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGamesListsEveryGame(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, srv.URL)

	out, err := execute(t, "games")
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	for _, want := range []string{"g1", "g2", "AWY @ HOM", "scheduled", "final", "HOM -3.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPredictThenDetailAndProfile(t *testing.T) {
	srv := newTestService(t, 100)
	dir := setClientEnv(t, srv.URL)

	out, err := execute(t, "predict", "g1", "HOM", "30")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(out, "Balance 70") {
		t.Fatalf("expected new balance, got %q", out)
	}

	store, err := localstore.NewFSStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "g1"); !ok {
		t.Fatalf("expected local record for g1")
	}

	// Detail for g1 comes from the local record even with the service gone.
	srv.Close()
	out, err = execute(t, "game", "g1")
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if !strings.Contains(out, "Your prediction on g1: HOM for 30") {
		t.Fatalf("unexpected detail %q", out)
	}
}

func TestProfileMergesLocalOnlyRecords(t *testing.T) {
	srv := newTestService(t, 100)
	dir := setClientEnv(t, srv.URL)

	if _, err := execute(t, "predict", "g1", "AWY_spread", "10"); err != nil {
		t.Fatalf("predict: %v", err)
	}
	store, _ := localstore.NewFSStore(dir)
	rec := localstore.NewRecord("g9", "HOM", money.New(5))
	if err := store.Put(context.Background(), rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, err := execute(t, "profile")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !strings.Contains(out, "balance 90") || !strings.Contains(out, "server") || !strings.Contains(out, "local") {
		t.Fatalf("unexpected profile:\n%s", out)
	}
	if strings.Count(out, "g1 ") != 1 {
		t.Fatalf("expected g1 listed once:\n%s", out)
	}
}

func TestPredictRejectionsWriteNothing(t *testing.T) {
	srv := newTestService(t, 50)
	dir := setClientEnv(t, srv.URL)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"insufficient", []string{"predict", "g1", "HOM", "75"}, "Insufficient balance"},
		{"closed", []string{"predict", "g2", "HOM", "5"}, "not open"},
		{"unknown pick", []string{"predict", "g1", "XYZ", "5"}, "not offered"},
		{"bad amount", []string{"predict", "g1", "HOM", "abc"}, "parse amount"},
		{"missing game", []string{"predict", "nope", "HOM", "5"}, "Game not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	store, _ := localstore.NewFSStore(dir)
	recs, err := store.List(context.Background())
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected no local records, got %v err=%v", recs, err)
	}
	out, err := execute(t, "user")
	if err != nil || !strings.Contains(out, "balance 50") {
		t.Fatalf("expected balance unchanged, got %q err=%v", out, err)
	}
}

func TestGameShowsFormForOpenGame(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, srv.URL)

	out, err := execute(t, "game", "g1")
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if !strings.Contains(out, "Picks: [HOM AWY HOM_spread AWY_spread]") {
		t.Fatalf("unexpected detail %q", out)
	}

	out, err = execute(t, "game", "g2")
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if !strings.Contains(out, "Predictions closed") {
		t.Fatalf("expected closed notice, got %q", out)
	}
}

func TestWatchStopsAfterCycles(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, srv.URL)

	out, err := execute(t, "watch", "--cycles", "1", "--interval", "1h")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(out, "balance 100") || !strings.Contains(out, "g1") {
		t.Fatalf("unexpected watch output %q", out)
	}
}

func TestWatchRefreshesOnInput(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, srv.URL)

	out, err := executeWithInput(t, "\n", "watch", "--cycles", "2", "--interval", "1h")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(out, "2 refreshes, 0 failed") {
		t.Fatalf("expected a manual refresh after the first cycle, got %q", out)
	}
}

func TestWatchReportsFailuresAndKeepsRunning(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, srv.URL)
	srv.Close()

	out, err := executeWithInput(t, "\n", "watch", "--cycles", "2", "--interval", "1h")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	for _, want := range []string{"refresh failed (1 in a row)", "refresh failed (2 in a row)", "2 refreshes, 2 failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestForgetThenDetailRepairsFromServer(t *testing.T) {
	srv := newTestService(t, 100)
	dir := setClientEnv(t, srv.URL)

	if _, err := execute(t, "predict", "g1", "HOM", "30"); err != nil {
		t.Fatalf("predict: %v", err)
	}
	out, err := execute(t, "forget", "g1")
	if err != nil || !strings.Contains(out, "Forgot local prediction for g1") {
		t.Fatalf("forget: %q err=%v", out, err)
	}
	store, _ := localstore.NewFSStore(dir)
	if _, ok, _ := store.Get(context.Background(), "g1"); ok {
		t.Fatalf("expected local record removed")
	}

	out, err = execute(t, "game", "g1")
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if !strings.Contains(out, "Your prediction on g1: HOM for 30") {
		t.Fatalf("expected server prediction shown, got %q", out)
	}
	if _, ok, _ := store.Get(context.Background(), "g1"); !ok {
		t.Fatalf("expected local record restored")
	}
}

func TestForgetDropsLocalOnlyRecordFromProfile(t *testing.T) {
	srv := newTestService(t, 100)
	dir := setClientEnv(t, srv.URL)

	store, _ := localstore.NewFSStore(dir)
	if err := store.Put(context.Background(), localstore.NewRecord("g9", "HOM", money.New(5))); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := execute(t, "forget", "g9"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	out, err := execute(t, "profile")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if strings.Contains(out, "g9") || !strings.Contains(out, "No predictions yet.") {
		t.Fatalf("expected forgotten record gone:\n%s", out)
	}
}

func TestAPIURLFlagOverridesEnv(t *testing.T) {
	srv := newTestService(t, 100)
	setClientEnv(t, "http://127.0.0.1:1")

	out, err := execute(t, "--api-url", srv.URL, "user")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if !strings.Contains(out, "tester") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	setClientEnv(t, "not a url")
	if _, err := execute(t, "games"); err == nil {
		t.Fatalf("expected config error")
	}
}
