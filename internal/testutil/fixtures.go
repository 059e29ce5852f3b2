package testutil

import (
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// SampleUserID is the id carried by SampleUser.
const SampleUserID = "user1"

// SampleGame returns a scheduled game with odds and the provided id.
func SampleGame(id string) domaingames.Game {
	return domaingames.Game{
		ID:       id,
		HomeTeam: domaingames.Team{Name: "Home", Abbreviation: "HOM"},
		AwayTeam: domaingames.Team{Name: "Away", Abbreviation: "AWY"},
		Status:   domaingames.StatusScheduled,
		Odds:     &domaingames.Odds{Spread: -3.5, Favorite: "HOM"},
	}
}

// SampleUser returns a user with no predictions and the given balance.
func SampleUser(balance int64) users.User {
	return users.User{
		ID:          SampleUserID,
		Username:    "tester",
		Balance:     money.New(balance),
		Predictions: []users.Prediction{},
	}
}
