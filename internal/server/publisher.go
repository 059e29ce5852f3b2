package server

import (
	"log/slog"

	"github.com/preston-bernstein/prediction-service/internal/config"
	"github.com/preston-bernstein/prediction-service/internal/events"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

func buildPublisher(cfg config.KafkaConfig, logger *slog.Logger) events.Publisher {
	if !cfg.Enabled() {
		return events.NopPublisher{}
	}
	logging.Info(logger, "publishing prediction events",
		"brokers", cfg.Brokers,
		"topic", cfg.PredictionsTopic,
	)
	return events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Brokers, cfg.PredictionsTopic))
}
