package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/prediction-service/internal/app/games"
	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	"github.com/preston-bernstein/prediction-service/internal/config"
	"github.com/preston-bernstein/prediction-service/internal/events"
	httpserver "github.com/preston-bernstein/prediction-service/internal/http"
	"github.com/preston-bernstein/prediction-service/internal/http/handlers"
	"github.com/preston-bernstein/prediction-service/internal/http/middleware"
	"github.com/preston-bernstein/prediction-service/internal/logging"
	"github.com/preston-bernstein/prediction-service/internal/metrics"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg                config.Config
	logger             *slog.Logger
	metrics            *metrics.Recorder
	gamesService       *games.Service
	predictionsService *predictions.Service
	publisher          events.Publisher
	httpServer         httpServer
	metricsServer      httpServer
	scheduler          Scheduler
	metricsStop        func(context.Context) error
	closeState         func() error
}

// New constructs a server from configuration: seed data, ledger, event
// publisher, snapshot jobs and the HTTP stack.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	state, err := buildState(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	publisher := buildPublisher(cfg.Kafka, logger)
	gameSvc := games.NewService(state.memory)
	predictionSvc := predictions.NewService(state.ledger, publisher, recorder, logger)

	snaps, err := buildSnapshots(cfg.Snapshots, stateSource{games: gameSvc, ledger: state.ledger}, logger, recorder)
	if err != nil {
		_ = publisher.Close()
		_ = state.close()
		return nil, err
	}

	httpSrv := buildHTTPServer(cfg, gameSvc, predictionSvc, snaps, logger, recorder)

	return &Server{
		cfg:                cfg,
		logger:             logger,
		metrics:            recorder,
		gamesService:       gameSvc,
		predictionsService: predictionSvc,
		publisher:          publisher,
		httpServer:         httpSrv,
		metricsServer:      metricsSrv,
		scheduler:          snaps.scheduler,
		metricsStop:        metricsShutdown,
		closeState:         state.close,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, gameSvc *games.Service, httpSrv httpServer, scheduler Scheduler) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		gamesService: gameSvc,
		httpServer:   httpSrv,
		scheduler:    scheduler,
	}
}

func buildHTTPServer(cfg config.Config, gameSvc *games.Service, predictionSvc *predictions.Service, snaps snapshotComponents, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(gameSvc, predictionSvc, logger)

	var admin *handlers.AdminHandler
	if cfg.AdminToken != "" {
		var capture handlers.CaptureFunc
		if snaps.snapshotter != nil {
			capture = snaps.snapshotter.Capture
		}
		admin = handlers.NewAdminHandler(capture, cfg.AdminToken, logger)
	}

	router := httpserver.NewRouter(handler, admin)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts background jobs and the HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.scheduler != nil {
		s.scheduler.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.scheduler != nil {
		if err := s.scheduler.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop scheduler", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn(s.logger, "event publisher close failed", "error", err)
		}
	}

	if s.closeState != nil {
		if err := s.closeState(); err != nil {
			logging.Warn(s.logger, "ledger close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
