package predictions

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// Profile is the user summary with server and local predictions combined.
type Profile struct {
	UserID      string       `json:"userId"`
	Username    string       `json:"username"`
	Balance     money.Amount `json:"balance"`
	Stats       users.Stats  `json:"stats"`
	Predictions []Entry      `json:"predictions"`
	Staked      money.Amount `json:"staked"`
	LocalOnly   int          `json:"localOnly"`
}

// BuildProfile merges u's predictions with the local records.
func BuildProfile(u users.User, local []localstore.Record) Profile {
	entries := Merge(u.Predictions, local)
	p := Profile{
		UserID:      u.ID,
		Username:    u.Username,
		Balance:     u.Balance,
		Stats:       u.Stats,
		Predictions: entries,
		Staked:      money.Zero,
	}
	for _, e := range entries {
		p.Staked = p.Staked.Add(e.Amount)
		if e.Source == SourceLocal {
			p.LocalOnly++
		}
	}
	return p
}

// LoadProfile reads every local record and merges it with u.
func LoadProfile(ctx context.Context, u users.User, store localstore.Store) (Profile, error) {
	local, err := store.List(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("list local predictions: %w", err)
	}
	return BuildProfile(u, local), nil
}
