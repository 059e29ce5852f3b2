package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/prediction-service/internal/client/predictions"
	"github.com/preston-bernstein/prediction-service/internal/client/session"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
	"github.com/preston-bernstein/prediction-service/internal/poller"
)

type appFunc func() (*app, error)

func newGamesCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			games, err := a.client.ListGames(cmd.Context())
			if err != nil {
				return err
			}
			return renderGames(cmd.OutOrStdout(), games)
		},
	}
}

func newGameCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "game <id>",
		Short: "Show a game, or the prediction already placed on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			view, err := a.detailer.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderDetail(cmd.OutOrStdout(), view)
		},
	}
}

func newUserCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show balance and record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			u, err := a.client.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			return renderUser(cmd.OutOrStdout(), u)
		},
	}
}

func newPredictCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <gameId> <pick> <amount>",
		Short: "Place a prediction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			amount, err := money.Parse(args[2])
			if err != nil {
				return err
			}
			u, err := a.submitter.SubmitChecked(cmd.Context(), args[0], args[1], amount)
			if err != nil && !errors.Is(err, predictions.ErrNotPersisted) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prediction placed: %s %s on %s. Balance %s\n",
				amount.String(), args[1], args[0], u.Balance.String())
			return err
		},
	}
}

func newProfileCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show every prediction, including ones only saved on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			u, err := a.client.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			p, err := predictions.LoadProfile(cmd.Context(), u, a.store)
			if err != nil {
				return err
			}
			return renderProfile(cmd.OutOrStdout(), p)
		},
	}
}

func newWatchCmd(current appFunc) *cobra.Command {
	var interval time.Duration
	var cycles int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh games and balance on an interval; press Enter to refresh now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.cfg.PollInterval
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			refresher := session.NewRefresher(a.client, a.session, a.logger)
			p := poller.New(refresher, a.logger, a.recorder, interval)
			seen := 0
			p.OnCycle(func(err error) {
				renderWatch(out, a.session, p.Status(), err)
				seen++
				if cycles > 0 && seen >= cycles {
					cancel()
				}
			})
			p.Start(ctx)
			go triggerOnInput(ctx, cmd.InOrStdin(), p)
			<-ctx.Done()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
			defer stopCancel()
			if err := p.Stop(stopCtx); err != nil {
				return err
			}
			stats := a.recorder.Job(metrics.JobRefresh)
			fmt.Fprintf(out, "%d refreshes, %d failed\n", stats.Runs, stats.Errors)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (defaults to PREDICT_POLL_INTERVAL)")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "exit after this many refreshes (0 runs until interrupted)")
	return cmd
}

// triggerOnInput requests a refresh for every line read from in.
func triggerOnInput(ctx context.Context, in io.Reader, p *poller.Poller) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		p.Trigger()
	}
}

func newForgetCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <gameId>",
		Short: "Remove the prediction saved on this device for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current()
			if err != nil {
				return err
			}
			if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot local prediction for %s\n", args[0])
			return nil
		},
	}
}
