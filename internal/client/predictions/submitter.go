package predictions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/client/api"
	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	"github.com/preston-bernstein/prediction-service/internal/client/session"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

// ErrNotPersisted means the service accepted the prediction but the local
// record could not be written.
var ErrNotPersisted = errors.New("prediction accepted but not saved locally")

// API is the subset of the service client used for predictions.
type API interface {
	GetGame(ctx context.Context, id string) (domaingames.Game, error)
	GetUser(ctx context.Context) (users.User, error)
	SubmitPrediction(ctx context.Context, req api.SubmitRequest) (api.SubmitResponse, error)
}

// Submitter places predictions and records them locally.
type Submitter struct {
	api     API
	store   localstore.Store
	session *session.Session
	logger  *slog.Logger
}

func NewSubmitter(client API, store localstore.Store, s *session.Session, logger *slog.Logger) *Submitter {
	return &Submitter{api: client, store: store, session: s, logger: logger}
}

// Submit sends one prediction. A rejected or failed call writes nothing
// locally. On success the record is persisted and the session user is
// replaced by the snapshot the service returned.
func (s *Submitter) Submit(ctx context.Context, gameID, pick string, amount money.Amount) (users.User, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return users.User{}, err
	}

	resp, err := s.api.SubmitPrediction(ctx, api.SubmitRequest{
		UserID: userID,
		GameID: gameID,
		Pick:   pick,
		Amount: amount,
	})
	if err != nil {
		logging.Warn(s.logger, "prediction rejected", logging.FieldGameID, gameID, "error", err)
		return users.User{}, fmt.Errorf("submit prediction: %w", err)
	}

	s.session.SetUser(resp.User)
	if err := s.store.Put(ctx, localstore.NewRecord(gameID, pick, amount)); err != nil {
		logging.Error(s.logger, "failed to persist prediction", err, logging.FieldGameID, gameID)
		return resp.User, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	logging.Info(s.logger, "prediction placed", logging.FieldGameID, gameID, logging.FieldPick, pick, logging.FieldAmount, amount.String())
	return resp.User, nil
}

// SubmitChecked validates against the game first and then submits.
func (s *Submitter) SubmitChecked(ctx context.Context, gameID, pick string, amount money.Amount) (users.User, error) {
	game, ok := s.session.Game(gameID)
	if !ok {
		var err error
		game, err = s.api.GetGame(ctx, gameID)
		if err != nil {
			return users.User{}, fmt.Errorf("load game: %w", err)
		}
	}
	if err := CanSubmit(game, pick, amount); err != nil {
		return users.User{}, err
	}
	return s.Submit(ctx, gameID, pick, amount)
}

func (s *Submitter) userID(ctx context.Context) (string, error) {
	if u, ok := s.session.User(); ok {
		return u.ID, nil
	}
	u, err := s.api.GetUser(ctx)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	s.session.SetUser(u)
	return u.ID, nil
}
