package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/prediction-service/internal/app/games"
	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// PredictionService is the part of predictions.Service the handlers use.
type PredictionService interface {
	User(ctx context.Context) (users.User, error)
	Submit(ctx context.Context, req predictions.Request) (users.User, error)
	Ready(ctx context.Context) error
}

// Handler wires HTTP routes to the games and predictions services.
type Handler struct {
	games       *games.Service
	predictions PredictionService
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewHandler constructs a Handler with defaults.
func NewHandler(gamesSvc *games.Service, predictionSvc PredictionService, logger *slog.Logger) *Handler {
	return &Handler{
		games:       gamesSvc,
		predictions: predictionSvc,
		logger:      logger,
		validate:    newValidator(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/games":
		h.Games(w, r)
	case strings.HasPrefix(r.URL.Path, "/games/"):
		h.GameByID(w, r)
	case r.URL.Path == "/user":
		h.User(w, r)
	case r.URL.Path == "/predict":
		h.Predict(w, r)
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the ledger is reachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.predictions == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if err := h.predictions.Ready(r.Context()); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "ledger not ready", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "not ready", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Games returns every game in stored order.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	list := h.games.Games()
	logging.Info(loggerFromContext(r, h.logger), "served games", logging.FieldCount, len(list))
	writeJSON(w, http.StatusOK, list, h.logger)
}

// GameByID returns a specific game if present.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	// Expect path: /games/{id}
	idRaw := strings.TrimPrefix(r.URL.EscapedPath(), "/games/")
	id, err := url.PathUnescape(idRaw)
	if err != nil || id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}

	game, ok := h.games.GameByID(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "Game not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

// User returns the current user snapshot.
func (h *Handler) User(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	user, err := h.predictions.User(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user, h.logger)
}
