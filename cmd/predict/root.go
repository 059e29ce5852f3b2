package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/prediction-service/internal/config"
)

func newRootCmd() *cobra.Command {
	var apiURL string
	var a *app

	root := &cobra.Command{
		Use:           "predict",
		Short:         "Browse games and place predictions against the prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			a, err = newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "service base URL (overrides PREDICT_API_URL)")

	current := func() (*app, error) {
		if a == nil {
			return nil, errors.New("client not initialised")
		}
		return a, nil
	}
	root.AddCommand(
		newGamesCmd(current),
		newGameCmd(current),
		newUserCmd(current),
		newPredictCmd(current),
		newProfileCmd(current),
		newWatchCmd(current),
		newForgetCmd(current),
	)
	return root
}
