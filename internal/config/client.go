package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ClientConfig holds settings for the prediction CLI.
type ClientConfig struct {
	APIURL        string        `envconfig:"PREDICT_API_URL" default:"http://localhost:3001"`
	HTTPTimeout   time.Duration `envconfig:"PREDICT_HTTP_TIMEOUT" default:"10s"`
	RetryAttempts int           `envconfig:"PREDICT_RETRY_ATTEMPTS" default:"3"`
	RetryBackoff  time.Duration `envconfig:"PREDICT_RETRY_BACKOFF" default:"200ms"`
	PollInterval  time.Duration `envconfig:"PREDICT_POLL_INTERVAL" default:"10s"`
	StoreDir      string        `envconfig:"PREDICT_STORE_DIR" default:".predict"`
	RedisAddr     string        `envconfig:"PREDICT_REDIS_ADDR"`

	Log LogConfig `ignored:"true"`
}

// LoadClient reads client configuration from the environment.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would make every call fail.
func (c ClientConfig) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("PREDICT_API_URL must be an absolute URL, got %q", c.APIURL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("PREDICT_HTTP_TIMEOUT must be positive"))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, errors.New("PREDICT_RETRY_ATTEMPTS must be at least 1"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("PREDICT_POLL_INTERVAL must be positive"))
	}
	if c.RedisAddr == "" && c.StoreDir == "" {
		errs = append(errs, errors.New("PREDICT_STORE_DIR or PREDICT_REDIS_ADDR is required"))
	}
	return errors.Join(errs...)
}
