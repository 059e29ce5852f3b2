package store

import (
	"context"
	"sync"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// MemoryStore keeps games and the single user in memory.
// Check-and-debit happens under one write lock, so concurrent submissions
// cannot overdraw the balance.
type MemoryStore struct {
	mu    sync.RWMutex
	games []domaingames.Game
	index map[string]int
	user  users.User
	ready bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// ListGames returns a copy of the games in stored order.
func (s *MemoryStore) ListGames() []domaingames.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domaingames.Game, len(s.games))
	copy(result, s.games)
	return result
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(id string) (domaingames.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domaingames.Game{}, false
	}
	return s.games[i], true
}

// SetGames replaces the existing games with a new snapshot.
// A later duplicate id replaces the earlier entry in place.
func (s *MemoryStore) SetGames(games []domaingames.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make([]domaingames.Game, 0, len(games))
	s.index = make(map[string]int, len(games))
	for _, g := range games {
		if i, ok := s.index[g.ID]; ok {
			s.games[i] = g
			continue
		}
		s.index[g.ID] = len(s.games)
		s.games = append(s.games, g)
	}
}

// SetUser replaces the stored user.
func (s *MemoryStore) SetUser(u users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = u.Clone()
	s.ready = true
}

// User returns a snapshot of the stored user.
func (s *MemoryStore) User(ctx context.Context) (users.User, error) {
	if err := ctx.Err(); err != nil {
		return users.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return users.User{}, users.ErrUserNotFound
	}
	return s.user.Clone(), nil
}

// PlacePrediction debits the user and appends p atomically.
func (s *MemoryStore) PlacePrediction(ctx context.Context, userID string, p users.Prediction) (users.User, error) {
	if err := ctx.Err(); err != nil {
		return users.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || s.user.ID != userID {
		return users.User{}, users.ErrUserNotFound
	}
	updated, err := s.user.Debit(p)
	if err != nil {
		return s.user.Clone(), err
	}
	s.user = updated
	return updated.Clone(), nil
}

// Ping always succeeds for the in-memory ledger.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
