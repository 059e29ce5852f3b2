package requestutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected generated request id")
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "from-header")
	if got := RequestID(req); got != "from-header" {
		t.Fatalf("expected header fallback, got %q", got)
	}
	req = req.WithContext(ctx)
	if got := RequestID(req); got != "abc" {
		t.Fatalf("expected context id, got %q", got)
	}
	if RequestID(nil) != "" {
		t.Fatal("expected empty id for nil request")
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := ClientIP(req); got != "1.2.3.4" {
		t.Fatalf("expected first forwarded address, got %s", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	if got := ClientIP(req); got != "9.9.9.9:1234" {
		t.Fatalf("expected remote addr fallback, got %s", got)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if BearerToken(req) != "" {
		t.Fatal("expected empty token without header")
	}
	req.Header.Set("Authorization", "Basic abc")
	if BearerToken(req) != "" {
		t.Fatal("expected empty token for non-bearer scheme")
	}
	req.Header.Set("Authorization", "Bearer  s3cret ")
	if got := BearerToken(req); got != "s3cret" {
		t.Fatalf("expected s3cret, got %q", got)
	}
	if BearerToken(nil) != "" {
		t.Fatal("expected empty token for nil request")
	}
}
