package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/client/api"
	"github.com/preston-bernstein/prediction-service/internal/client/localstore"
	"github.com/preston-bernstein/prediction-service/internal/client/predictions"
	"github.com/preston-bernstein/prediction-service/internal/client/session"
	"github.com/preston-bernstein/prediction-service/internal/config"
	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
)

const appVersion = "dev"

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg       config.ClientConfig
	logger    *slog.Logger
	client    *api.Client
	store     localstore.Store
	session   *session.Session
	recorder  *metrics.Recorder
	submitter *predictions.Submitter
	detailer  *predictions.Detailer
	closers   []func() error
}

func newApp(ctx context.Context, cfg config.ClientConfig, logOut io.Writer) (*app, error) {
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "predict",
		Version: appVersion,
		Writer:  logOut,
	})

	client := api.NewClient(api.Config{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.HTTPTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryBackoff:  cfg.RetryBackoff,
		Logger:        logger,
	})

	a := &app{cfg: cfg, logger: logger, client: client, session: session.New(), recorder: metrics.NewRecorder()}
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.submitter = predictions.NewSubmitter(client, store, a.session, logger)
	a.detailer = predictions.NewDetailer(client, store, a.session, logger)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (localstore.Store, error) {
	if a.cfg.RedisAddr != "" {
		rdb, err := localstore.ConnectRedis(ctx, a.cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		store := localstore.NewRedisStore(rdb)
		a.closers = append(a.closers, store.Close)
		logging.Info(a.logger, "using redis store", "addr", a.cfg.RedisAddr)
		return store, nil
	}
	store, err := localstore.NewFSStore(a.cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return store, nil
}

func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
