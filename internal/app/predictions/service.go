package predictions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/events"
	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
)

// Ledger holds the user balance and applies debits atomically.
type Ledger interface {
	User(ctx context.Context) (users.User, error)
	PlacePrediction(ctx context.Context, userID string, p users.Prediction) (users.User, error)
	Ping(ctx context.Context) error
}

// Request is a prediction submission.
type Request struct {
	UserID string
	GameID string
	Pick   string
	Amount money.Amount
}

// Service validates submissions, debits the ledger and announces accepted predictions.
// It does not check that the game exists or is still open.
type Service struct {
	ledger    Ledger
	publisher events.Publisher
	metrics   *metrics.Recorder
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// NewService wires a Service. A nil publisher drops events.
func NewService(ledger Ledger, publisher events.Publisher, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		ledger:    ledger,
		publisher: publisher,
		metrics:   recorder,
		logger:    logger,
		newID:     func() string { return uuid.NewString() },
		now:       time.Now,
	}
}

// User returns the current user snapshot.
func (s *Service) User(ctx context.Context) (users.User, error) {
	return s.ledger.User(ctx)
}

// Ready reports whether the ledger is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.ledger.Ping(ctx)
}

// Submit places a prediction and returns the updated user.
func (s *Service) Submit(ctx context.Context, req Request) (users.User, error) {
	start := s.now()
	logger := logging.FromContext(ctx, s.logger)

	if err := req.validate(); err != nil {
		s.metrics.RecordPrediction(metrics.OutcomeInvalid, s.now().Sub(start))
		return users.User{}, err
	}

	p := users.NewPrediction(s.newID(), req.GameID, req.Pick, req.Amount)
	updated, err := s.ledger.PlacePrediction(ctx, req.UserID, p)
	outcome := outcomeFor(err)
	s.metrics.RecordPrediction(outcome, s.now().Sub(start))
	if err != nil {
		if outcome == metrics.OutcomeError {
			logging.Error(logger, "prediction failed", err,
				logging.FieldUserID, req.UserID,
				logging.FieldGameID, req.GameID,
			)
			return users.User{}, fmt.Errorf("place prediction: %w", err)
		}
		logging.Info(logger, "prediction rejected",
			logging.FieldUserID, req.UserID,
			logging.FieldGameID, req.GameID,
			logging.FieldAmount, req.Amount.String(),
			logging.FieldOutcome, outcome,
		)
		return users.User{}, err
	}

	logging.Info(logger, "prediction placed",
		logging.FieldUserID, req.UserID,
		logging.FieldGameID, req.GameID,
		logging.FieldPick, req.Pick,
		logging.FieldAmount, req.Amount.String(),
		logging.FieldBalance, updated.Balance.String(),
	)

	event := events.PredictionPlaced{
		PredictionID: p.ID,
		UserID:       req.UserID,
		GameID:       req.GameID,
		Pick:         req.Pick,
		Amount:       req.Amount,
		Balance:      updated.Balance,
		TsUnixMs:     s.now().UnixMilli(),
	}
	if err := s.publisher.PublishPredictionPlaced(ctx, event); err != nil {
		logging.Warn(logger, "prediction event not published", "error", err, logging.FieldGameID, req.GameID)
	}
	return updated, nil
}

func (r Request) validate() error {
	switch {
	case r.UserID == "":
		return fmt.Errorf("%w: userId is required", ErrInvalidPrediction)
	case r.GameID == "":
		return fmt.Errorf("%w: gameId is required", ErrInvalidPrediction)
	case r.Pick == "":
		return fmt.Errorf("%w: pick is required", ErrInvalidPrediction)
	case !r.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", ErrInvalidPrediction)
	case r.Amount.Check() != nil:
		return fmt.Errorf("%w: amount allows at most %d decimal places", ErrInvalidPrediction, money.MaxScale)
	}
	return nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrUserNotFound):
		return metrics.OutcomeUserNotFound
	case errors.Is(err, ErrInsufficientBalance):
		return metrics.OutcomeInsufficientBalance
	default:
		return metrics.OutcomeError
	}
}
