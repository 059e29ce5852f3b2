package predictions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	"github.com/preston-bernstein/prediction-service/internal/client/session"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// View is what the detail screen for one game shows. Exactly one of Record
// or Game is meaningful: a recorded prediction replaces the submission form.
type View struct {
	GameID   string
	Record   *localstore.Record
	Repaired bool
	Game     domaingames.Game
	Picks    []string
	// Blocked is the reason the form is disabled, if any.
	Blocked error
}

// HasPrediction reports whether the view shows an existing prediction.
func (v View) HasPrediction() bool { return v.Record != nil }

// Detailer builds detail views.
type Detailer struct {
	api     API
	store   localstore.Store
	session *session.Session
	logger  *slog.Logger
}

func NewDetailer(client API, store localstore.Store, s *session.Session, logger *slog.Logger) *Detailer {
	return &Detailer{api: client, store: store, session: s, logger: logger}
}

// Detail returns the view for gameID. A local record is returned without
// any network call.
func (d *Detailer) Detail(ctx context.Context, gameID string) (View, error) {
	rec, ok, err := d.store.Get(ctx, gameID)
	if err != nil {
		return View{}, fmt.Errorf("read local prediction: %w", err)
	}
	if ok {
		return View{GameID: gameID, Record: &rec}, nil
	}

	if u, ok := d.user(ctx); ok {
		if p, found := u.PredictionFor(gameID); found {
			rec := localstore.Record{Pick: p.Pick, Amount: p.Amount, Result: p.Result, GameID: gameID}
			if err := d.store.Put(ctx, rec); err != nil {
				logging.Warn(d.logger, "failed to repair local prediction", logging.FieldGameID, gameID, "error", err)
			}
			return View{GameID: gameID, Record: &rec, Repaired: true}, nil
		}
	}

	game, ok := d.session.Game(gameID)
	if !ok {
		game, err = d.api.GetGame(ctx, gameID)
		if err != nil {
			return View{}, fmt.Errorf("load game: %w", err)
		}
	}
	view := View{GameID: gameID, Game: game, Picks: game.Picks()}
	if !game.IsOpen() {
		view.Blocked = fmt.Errorf("%w: %s", ErrGameClosed, game.Status)
	}
	return view, nil
}

// user returns the session user, loading it once when the session has none.
// A failed load only disables the repair path.
func (d *Detailer) user(ctx context.Context) (users.User, bool) {
	if u, ok := d.session.User(); ok {
		return u, true
	}
	u, err := d.api.GetUser(ctx)
	if err != nil {
		logging.Warn(d.logger, "user unavailable for detail view", "error", err)
		return users.User{}, false
	}
	d.session.SetUser(u)
	return u, true
}
