package users

import (
	"errors"

	"github.com/preston-bernstein/prediction-service/internal/domain/money"
)

var (
	// ErrUserNotFound is returned when a request names a user the ledger does not hold.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientBalance is returned when a stake exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Result is the settlement state of a prediction.
type Result string

const (
	ResultPending Result = "pending"
	ResultWin     Result = "win"
	ResultLoss    Result = "loss"
)

// Prediction is a stake placed on one pick of one game.
type Prediction struct {
	ID     string       `json:"id"`
	GameID string       `json:"gameId"`
	Pick   string       `json:"pick"`
	Amount money.Amount `json:"amount"`
	Result Result       `json:"result"`
}

// Stats are carried as stored; nothing recomputes them from predictions.
type Stats struct {
	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Pending int `json:"pending"`
}

// User is the single account the service manages.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Balance     money.Amount `json:"balance"`
	Predictions []Prediction `json:"predictions"`
	Stats       Stats        `json:"stats"`
}

// NewPrediction builds a pending prediction.
func NewPrediction(id, gameID, pick string, amount money.Amount) Prediction {
	return Prediction{
		ID:     id,
		GameID: gameID,
		Pick:   pick,
		Amount: amount,
		Result: ResultPending,
	}
}

// Clone returns a copy that shares no slice memory with u.
func (u User) Clone() User {
	out := u
	out.Predictions = make([]Prediction, len(u.Predictions))
	copy(out.Predictions, u.Predictions)
	return out
}

// PredictionFor returns the most recent prediction on gameID.
func (u User) PredictionFor(gameID string) (Prediction, bool) {
	for i := len(u.Predictions) - 1; i >= 0; i-- {
		if u.Predictions[i].GameID == gameID {
			return u.Predictions[i], true
		}
	}
	return Prediction{}, false
}

// Debit checks the balance and applies p, returning the updated user.
// The receiver is left untouched.
func (u User) Debit(p Prediction) (User, error) {
	if p.Amount.GreaterThan(u.Balance) {
		return u, ErrInsufficientBalance
	}
	out := u.Clone()
	out.Balance = out.Balance.Sub(p.Amount)
	out.Predictions = append(out.Predictions, p)
	return out, nil
}
