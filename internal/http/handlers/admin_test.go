package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/prediction-service/internal/testutil"
)

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/snapshots/refresh", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminRefreshSnapshotsRequiresToken(t *testing.T) {
	calls := 0
	capture := func(context.Context) (string, error) {
		calls++
		return "2024-03-10", nil
	}
	h := NewAdminHandler(capture, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), adminRequest(""))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	rr = testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), adminRequest("wrong"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	if calls != 0 {
		t.Fatalf("expected no capture without a valid token")
	}

	rr = testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["date"] != "2024-03-10" || body["status"] != "ok" || calls != 1 {
		t.Fatalf("unexpected response %+v calls=%d", body, calls)
	}
}

func TestAdminRefreshSnapshotsEmptyTokenDeniesAll(t *testing.T) {
	h := NewAdminHandler(func(context.Context) (string, error) { return "", nil }, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/admin/snapshots/refresh", nil)
	req.Header.Set("Authorization", "Bearer ")
	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminRefreshSnapshotsFailures(t *testing.T) {
	h := NewAdminHandler(nil, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	logger, buf := testutil.NewBufferLogger()
	h = NewAdminHandler(func(context.Context) (string, error) { return "", errors.New("disk full") }, "secret", logger)
	rr = testutil.ServeRequest(http.HandlerFunc(h.RefreshSnapshots), adminRequest("secret"))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	if buf.Len() == 0 {
		t.Fatalf("expected failure to be logged")
	}

	rr = testutil.Serve(http.HandlerFunc(h.RefreshSnapshots), http.MethodGet, "/admin/snapshots/refresh", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
