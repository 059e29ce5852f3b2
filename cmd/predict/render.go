package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/preston-bernstein/prediction-service/internal/client/predictions"
	"github.com/preston-bernstein/prediction-service/internal/client/session"
	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/poller"
)

func renderGames(w io.Writer, games []domaingames.Game) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMATCHUP\tSTATUS\tSCORE\tLINE")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s @ %s\t%s\t%s\t%s\n",
			g.ID, g.AwayTeam.Abbreviation, g.HomeTeam.Abbreviation, g.Status, score(g), line(g))
	}
	return tw.Flush()
}

func score(g domaingames.Game) string {
	if g.AwayTeam.Score == nil || g.HomeTeam.Score == nil {
		return "-"
	}
	return fmt.Sprintf("%d-%d", *g.AwayTeam.Score, *g.HomeTeam.Score)
}

func line(g domaingames.Game) string {
	if g.Odds == nil {
		return "-"
	}
	return fmt.Sprintf("%s %+g", g.Odds.Favorite, g.Odds.Spread)
}

func renderDetail(w io.Writer, v predictions.View) error {
	if v.HasPrediction() {
		_, err := fmt.Fprintf(w, "Your prediction on %s: %s for %s (%s)\n",
			v.GameID, v.Record.Pick, v.Record.Amount.String(), v.Record.Result)
		return err
	}
	g := v.Game
	fmt.Fprintf(w, "%s: %s (%s) @ %s (%s)\n", g.ID, g.AwayTeam.Name, g.AwayTeam.Abbreviation, g.HomeTeam.Name, g.HomeTeam.Abbreviation)
	fmt.Fprintf(w, "Status: %s  Score: %s  Line: %s\n", g.Status, score(g), line(g))
	if v.Blocked != nil {
		_, err := fmt.Fprintf(w, "Predictions closed: %v\n", v.Blocked)
		return err
	}
	_, err := fmt.Fprintf(w, "Picks: %v\n", v.Picks)
	return err
}

func renderUser(w io.Writer, u users.User) error {
	_, err := fmt.Fprintf(w, "%s  balance %s  W%d L%d P%d\n",
		u.Username, u.Balance.String(), u.Stats.Wins, u.Stats.Losses, u.Stats.Pending)
	return err
}

func renderProfile(w io.Writer, p predictions.Profile) error {
	fmt.Fprintf(w, "%s  balance %s  staked %s\n", p.Username, p.Balance.String(), p.Staked.String())
	if len(p.Predictions) == 0 {
		_, err := fmt.Fprintln(w, "No predictions yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tPICK\tAMOUNT\tRESULT\tSOURCE")
	for _, e := range p.Predictions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.GameID, e.Pick, e.Amount.String(), e.Result, e.Source)
	}
	return tw.Flush()
}

func renderWatch(w io.Writer, s *session.Session, status poller.Status, err error) {
	if err != nil {
		fmt.Fprintf(w, "refresh failed (%d in a row), showing last data: %v\n", status.ConsecutiveFailures, err)
	}
	if u, ok := s.User(); ok {
		fmt.Fprintf(w, "balance %s\n", u.Balance.String())
	}
	_ = renderGames(w, s.Games())
}
