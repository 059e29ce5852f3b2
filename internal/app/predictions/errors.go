package predictions

import (
	"errors"

	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

var (
	ErrUserNotFound        = users.ErrUserNotFound
	ErrInsufficientBalance = users.ErrInsufficientBalance
	// ErrInvalidPrediction covers missing fields and non-positive amounts.
	ErrInvalidPrediction = errors.New("invalid prediction")
)
