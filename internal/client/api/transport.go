package api

import (
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL       = "http://localhost:3001"
	defaultHTTPTimeout   = 10 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 200 * time.Millisecond
	maxErrorBody         = 4 << 10
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client, timeout time.Duration) httpDoer {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}
