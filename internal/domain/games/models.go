package games

import "strings"

// Status mirrors the lifecycle states a game moves through.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "inProgress"
	StatusFinal      Status = "final"
)

// SpreadSuffix marks a pick against the spread rather than the moneyline.
const SpreadSuffix = "_spread"

// Team describes one side of a game.
type Team struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Score        *int   `json:"score,omitempty"`
	Logo         string `json:"logo,omitempty"`
}

// Odds carries the posted line; Favorite is a team abbreviation.
type Odds struct {
	Spread   float64 `json:"spread"`
	Favorite string  `json:"favorite"`
}

// Game is the canonical game shape exposed by the service.
type Game struct {
	ID        string `json:"id"`
	HomeTeam  Team   `json:"homeTeam"`
	AwayTeam  Team   `json:"awayTeam"`
	Status    Status `json:"status"`
	Odds      *Odds  `json:"odds,omitempty"`
	Winner    string `json:"winner,omitempty"`
	Period    string `json:"period,omitempty"`
	Clock     string `json:"clock,omitempty"`
	StartTime string `json:"startTime,omitempty"`
}

// IsOpen reports whether predictions may still be placed on the game.
func (g Game) IsOpen() bool {
	return g.Status == StatusScheduled
}

// Picks lists the picks a client may offer for the game.
func (g Game) Picks() []string {
	picks := make([]string, 0, 4)
	for _, abbr := range []string{g.HomeTeam.Abbreviation, g.AwayTeam.Abbreviation} {
		if abbr != "" {
			picks = append(picks, abbr)
		}
	}
	if g.Odds == nil {
		return picks
	}
	for _, abbr := range []string{g.HomeTeam.Abbreviation, g.AwayTeam.Abbreviation} {
		if abbr != "" {
			picks = append(picks, SpreadPick(abbr))
		}
	}
	return picks
}

// HasPick reports whether pick is one of Picks.
func (g Game) HasPick(pick string) bool {
	for _, p := range g.Picks() {
		if p == pick {
			return true
		}
	}
	return false
}

// SpreadPick builds the spread pick for a team abbreviation.
func SpreadPick(abbr string) string {
	return abbr + SpreadSuffix
}

// PickTeam strips the spread suffix, returning the team and whether it was a spread pick.
func PickTeam(pick string) (string, bool) {
	if team, ok := strings.CutSuffix(pick, SpreadSuffix); ok {
		return team, true
	}
	return pick, false
}
