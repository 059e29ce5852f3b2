// Package predictions implements the client side of placing and reviewing
// predictions: the submission gate, submission, the detail view and the
// profile merge of server and local records.
package predictions

import (
	"errors"
	"fmt"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
)

var (
	ErrGameClosed    = errors.New("game is not open for predictions")
	ErrNoPick        = errors.New("a pick is required")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrUnknownPick   = errors.New("pick is not offered for this game")
)

// CanSubmit reports why a submission would be refused, or nil.
func CanSubmit(game domaingames.Game, pick string, amount money.Amount) error {
	if !game.IsOpen() {
		return fmt.Errorf("%w: %s", ErrGameClosed, game.Status)
	}
	if pick == "" {
		return ErrNoPick
	}
	if !amount.GreaterThan(money.Zero) {
		return ErrInvalidAmount
	}
	if !game.HasPick(pick) {
		return fmt.Errorf("%w: %q", ErrUnknownPick, pick)
	}
	return nil
}
