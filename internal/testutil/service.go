package testutil

import (
	"github.com/preston-bernstein/prediction-service/internal/app/games"
	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/store"
)

// NewServiceWithGames builds a games service backed by an in-memory store preloaded with games.
func NewServiceWithGames(g []domaingames.Game) *games.Service {
	ms := store.NewMemoryStore()
	if len(g) > 0 {
		ms.SetGames(g)
	}
	return games.NewService(ms)
}

// NewPredictionService builds a predictions service over an in-memory ledger holding user.
func NewPredictionService(user users.User) (*predictions.Service, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	ms.SetUser(user)
	return predictions.NewService(ms, nil, nil, nil), ms
}
