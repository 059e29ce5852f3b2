package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// API is the read side of the service client.
type API interface {
	ListGames(ctx context.Context) ([]domaingames.Game, error)
	GetUser(ctx context.Context) (users.User, error)
}

// Refresher reloads games and user into a Session.
type Refresher struct {
	api     API
	session *Session
	logger  *slog.Logger
}

func NewRefresher(api API, s *Session, logger *slog.Logger) *Refresher {
	return &Refresher{api: api, session: s, logger: logger}
}

// Refresh fetches games and user under one generation. A failed half leaves
// the previous data in place; the combined error is recorded on the session.
func (r *Refresher) Refresh(ctx context.Context) error {
	gen := r.session.Begin()

	var errs []error
	games, err := r.api.ListGames(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("games: %w", err))
	} else if !r.session.ApplyGames(gen, games) {
		logging.Info(r.logger, "discarded stale games", "generation", gen)
	}

	user, err := r.api.GetUser(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("user: %w", err))
	} else if !r.session.ApplyUser(gen, user) {
		logging.Info(r.logger, "discarded stale user", "generation", gen)
	}

	joined := errors.Join(errs...)
	r.session.Finish(gen, joined)
	return joined
}
