package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port        string `envconfig:"PORT" default:"3001"`
	SeedFile    string `envconfig:"SEED_FILE"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	AdminToken  string `envconfig:"ADMIN_TOKEN"`

	Log       LogConfig      `ignored:"true"`
	Kafka     KafkaConfig    `ignored:"true"`
	Snapshots SnapshotConfig `ignored:"true"`
	Metrics   MetricsConfig  `ignored:"true"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// KafkaConfig enables event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers          string `envconfig:"KAFKA_BROKERS"`
	PredictionsTopic string `envconfig:"KAFKA_TOPIC_PREDICTIONS" default:"predictions_placed"`
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool {
	return k.Brokers != ""
}

// Load reads server configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	targets := []any{&cfg, &cfg.Log, &cfg.Kafka, &cfg.Snapshots, &cfg.Metrics}
	for _, target := range targets {
		if err := envconfig.Process("", target); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c Config) Validate() error {
	var errs []error
	if err := validPort("PORT", c.Port); err != nil {
		errs = append(errs, err)
	}
	if c.Metrics.Enabled {
		if err := validPort("METRICS_PORT", c.Metrics.Port); err != nil {
			errs = append(errs, err)
		}
		if c.Metrics.Port == c.Port {
			errs = append(errs, fmt.Errorf("METRICS_PORT must differ from PORT (%s)", c.Port))
		}
	}
	if c.Snapshots.Enabled {
		if c.Snapshots.Dir == "" {
			errs = append(errs, errors.New("SNAPSHOT_DIR is required when snapshots are enabled"))
		}
		if c.Snapshots.RetentionDays < 1 {
			errs = append(errs, errors.New("SNAPSHOT_RETENTION_DAYS must be at least 1"))
		}
	}
	return errors.Join(errs...)
}

func validPort(name, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s must be a port number, got %q", name, port)
	}
	return nil
}
