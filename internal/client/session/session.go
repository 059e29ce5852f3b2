// Package session holds the client's in-memory view of the service.
//
// Every refresh takes a generation from Begin. A result is applied only if no
// newer generation has been applied for the same field, so a slow response
// cannot overwrite fresher state.
package session

import (
	"sync"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// Session is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	next        uint64
	gamesGen    uint64
	userGen     uint64
	errGen      uint64
	games       []domaingames.Game
	user        users.User
	hasUser     bool
	lastErr     error
	refreshedAt time.Time
	now         func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Begin reserves the next generation.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// ApplyGames stores games fetched under gen. It reports whether they were applied.
func (s *Session) ApplyGames(gen uint64, games []domaingames.Game) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.gamesGen {
		return false
	}
	s.gamesGen = gen
	s.games = append([]domaingames.Game(nil), games...)
	return true
}

// ApplyUser stores a user fetched under gen. It reports whether it was applied.
func (s *Session) ApplyUser(gen uint64, user users.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUserLocked(gen, user)
}

func (s *Session) applyUserLocked(gen uint64, user users.User) bool {
	if gen <= s.userGen {
		return false
	}
	s.userGen = gen
	s.user = user.Clone()
	s.hasUser = true
	return true
}

// SetUser replaces the user with an authoritative snapshot, such as the one
// returned by a submission. Refreshes begun earlier can no longer overwrite it.
func (s *Session) SetUser(user users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.applyUserLocked(s.next, user)
}

// Finish records the outcome of the refresh begun as gen.
// A nil err clears the error state. Stale outcomes are ignored.
func (s *Session) Finish(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.errGen {
		return
	}
	s.errGen = gen
	s.lastErr = err
	if err == nil {
		s.refreshedAt = s.now()
	}
}

// Games returns the last applied games.
func (s *Session) Games() []domaingames.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domaingames.Game(nil), s.games...)
}

// Game looks up a cached game.
func (s *Session) Game(id string) (domaingames.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.games {
		if g.ID == id {
			return g, true
		}
	}
	return domaingames.Game{}, false
}

// User returns the last applied user, if any.
func (s *Session) User() (users.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasUser {
		return users.User{}, false
	}
	return s.user.Clone(), true
}

// Err returns the error of the latest finished refresh.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// RefreshedAt is the time of the latest successful refresh.
func (s *Session) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
