package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/prediction-service/internal/http/requestutil"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// CaptureFunc writes a state snapshot and returns its date.
type CaptureFunc func(ctx context.Context) (string, error)

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	capture CaptureFunc
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(capture CaptureFunc, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		capture: capture,
		token:   token,
		logger:  logger,
	}
}

// RefreshSnapshots writes a state snapshot now.
// Guarded by ADMIN_TOKEN; returns 401 if missing or invalid.
func (h *AdminHandler) RefreshSnapshots(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			logging.FieldPath, r.URL.Path,
			"client_ip", requestutil.ClientIP(r),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.capture == nil {
		writeError(w, r, http.StatusServiceUnavailable, "snapshot writer not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date, err := h.capture(r.Context())
	if err != nil {
		logging.Error(logger, "admin snapshot write failed", err)
		writeError(w, r, http.StatusInternalServerError, "failed to write snapshot", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"date":   date,
		"status": "ok",
	}, logger)
	logging.Info(logger, "admin snapshot written", logging.FieldDate, date)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
