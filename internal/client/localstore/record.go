package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// KeyPrefix precedes the game id in every local record key.
const KeyPrefix = "prediction_"

// ErrInvalidGameID is returned for ids that cannot form a safe key.
var ErrInvalidGameID = errors.New("invalid game id")

// Record is a prediction persisted on this device after a successful submission.
type Record struct {
	Pick   string       `json:"pick"`
	Amount money.Amount `json:"amount"`
	Result users.Result `json:"result"`
	GameID string       `json:"gameId"`
}

// NewRecord returns a pending record.
func NewRecord(gameID, pick string, amount money.Amount) Record {
	return Record{Pick: pick, Amount: amount, Result: users.ResultPending, GameID: gameID}
}

// Store persists one Record per game id.
type Store interface {
	Get(ctx context.Context, gameID string) (Record, bool, error)
	Put(ctx context.Context, r Record) error
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, gameID string) error
}

// Key returns the storage key for gameID.
func Key(gameID string) string {
	return KeyPrefix + gameID
}

func validateGameID(gameID string) error {
	if gameID == "" || gameID == "." || gameID == ".." || strings.ContainsAny(gameID, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidGameID, gameID)
	}
	return nil
}
