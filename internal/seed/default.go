package seed

import (
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// DefaultUserID identifies the built-in demo user.
const DefaultUserID = "user1"

func score(v int) *int { return &v }

// Default returns a deterministic demo state: one user and a mix of game states.
func Default() Data {
	return Data{
		User: users.User{
			ID:          DefaultUserID,
			Username:    "demo",
			Balance:     money.New(1000),
			Predictions: []users.Prediction{},
			Stats:       users.Stats{},
		},
		Games: []domaingames.Game{
			{
				ID:        "game-1",
				HomeTeam:  domaingames.Team{Name: "Celtics", Abbreviation: "BOS"},
				AwayTeam:  domaingames.Team{Name: "Lakers", Abbreviation: "LAL"},
				Status:    domaingames.StatusScheduled,
				Odds:      &domaingames.Odds{Spread: -4.5, Favorite: "BOS"},
				StartTime: "2024-01-01T19:30:00Z",
			},
			{
				ID:        "game-2",
				HomeTeam:  domaingames.Team{Name: "Warriors", Abbreviation: "GSW"},
				AwayTeam:  domaingames.Team{Name: "Heat", Abbreviation: "MIA"},
				Status:    domaingames.StatusScheduled,
				Odds:      &domaingames.Odds{Spread: -2, Favorite: "GSW"},
				StartTime: "2024-01-01T22:00:00Z",
			},
			{
				ID:       "game-3",
				HomeTeam: domaingames.Team{Name: "Knicks", Abbreviation: "NYK", Score: score(54)},
				AwayTeam: domaingames.Team{Name: "Bulls", Abbreviation: "CHI", Score: score(49)},
				Status:   domaingames.StatusInProgress,
				Odds:     &domaingames.Odds{Spread: -1.5, Favorite: "NYK"},
				Period:   "Q3",
				Clock:    "7:12",
			},
			{
				ID:       "game-4",
				HomeTeam: domaingames.Team{Name: "Suns", Abbreviation: "PHX", Score: score(112)},
				AwayTeam: domaingames.Team{Name: "Nuggets", Abbreviation: "DEN", Score: score(118)},
				Status:   domaingames.StatusFinal,
				Winner:   "DEN",
			},
		},
	}
}
