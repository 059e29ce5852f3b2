package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	g := SampleGame("id-1")
	if g.ID != "id-1" || !g.IsOpen() || g.Odds == nil {
		t.Fatalf("unexpected game fixture %+v", g)
	}
	u := SampleUser(100)
	if u.ID != SampleUserID || u.Balance.String() != "100" || u.Predictions == nil {
		t.Fatalf("unexpected user fixture %+v", u)
	}
}

func TestServiceHelpers(t *testing.T) {
	svc := NewServiceWithGames([]domaingames.Game{SampleGame("g1")})
	if _, ok := svc.GameByID("g1"); !ok {
		t.Fatalf("expected preloaded game")
	}
	if len(NewServiceWithGames(nil).Games()) != 0 {
		t.Fatalf("expected empty service")
	}

	preds, ledger := NewPredictionService(SampleUser(50))
	user, err := preds.User(context.Background())
	if err != nil || user.Balance.String() != "50" {
		t.Fatalf("expected seeded user, got %+v err=%v", user, err)
	}
	if ledger == nil {
		t.Fatalf("expected ledger")
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestSnapshotHelpers(t *testing.T) {
	w := NewTempWriter(t, 5)
	date := time.Now().UTC().Format(time.DateOnly)
	WriteSnapshot(t, w, date, SampleUser(10))
	data, err := os.ReadFile(SnapshotPath(w, date))
	if err != nil {
		t.Fatalf("expected snapshot file, got %v", err)
	}
	if !strings.Contains(string(data), "snap-"+date) {
		t.Fatalf("expected snapshot contents, got %s", data)
	}
}

func TestWriteSnapshotPayloadHandlesNilWriter(t *testing.T) {
	if err := writeSnapshotPayload(nil, "2024-01-01", SampleUser(1)); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestServerStubs(t *testing.T) {
	s := &StubScheduler{Err: errors.New("stop")}
	s.Start(context.Background())
	if err := s.Stop(context.Background()); !errors.Is(err, s.Err) {
		t.Fatalf("expected stop error")
	}
	if s.StartCalls != 1 || s.StopCalls != 1 {
		t.Fatalf("unexpected call counts %+v", s)
	}

	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down")}
	sh.HandlerVal = http.NewServeMux()
	_ = sh.ListenAndServe()
	_ = sh.Shutdown(context.Background())
	_ = sh.Handler()
	_ = sh.Addr()
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 {
		t.Fatalf("expected listen/shutdown calls, got %+v", sh)
	}

	b := &BlockingHTTPServer{Unblock: make(chan struct{}), HandlerVal: http.NewServeMux()}
	if err := b.ListenAndServe(); err != nil {
		t.Fatalf("expected nil listen error for blocking server")
	}
	done := make(chan error, 1)
	go func() { done <- b.Shutdown(context.Background()) }()
	close(b.Unblock)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}

	e := &ErrHTTPServer{}
	if err := e.ListenAndServe(); err == nil {
		t.Fatalf("expected listen error")
	}
	c := &CloseableHTTPServer{}
	if err := c.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
