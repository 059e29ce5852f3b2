package snapshots

import (
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// State is the persisted copy of everything the service holds in memory.
type State struct {
	Date    string             `json:"date"`
	TakenAt time.Time          `json:"takenAt"`
	Games   []domaingames.Game `json:"games"`
	User    users.User         `json:"user"`
}
