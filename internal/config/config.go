// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and EDUMETRICS_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"

	"github.com/okian/edumetrics/pkg/logger"
)

// Default configuration values.
const (
	DefaultAddr          = ":9080"
	DefaultModelPath     = "models/student_huber_pipeline.json"
	DefaultFallbackScore = 72.4
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath points at the exported model artifact.
	ModelPath string `koanf:"model_path"`

	// ModelLoadAttempts bounds artifact load tries at startup (2 = one retry).
	ModelLoadAttempts int `koanf:"model_load_attempts"`

	// ModelLoadRetryDelayMS is the pause between load attempts.
	ModelLoadRetryDelayMS int `koanf:"model_load_retry_delay_ms"`

	// PredictionTimeoutMS bounds one pipeline call; 0 disables the bound.
	PredictionTimeoutMS int `koanf:"prediction_timeout_ms"`

	// FallbackScore is reported when the pipeline fails.
	FallbackScore float64 `koanf:"fallback_score"`

	// FallbackEnabled turns pipeline failures into degraded reports. When
	// false the failure is surfaced to the caller.
	FallbackEnabled bool `koanf:"fallback_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             logger.FormatText,
		Addr:                  DefaultAddr,
		ModelPath:             DefaultModelPath,
		ModelLoadAttempts:     2,
		ModelLoadRetryDelayMS: 500,
		PredictionTimeoutMS:   2000,
		FallbackScore:         DefaultFallbackScore,
		FallbackEnabled:       true,
	}
}

// ModelLoadRetryDelay returns the retry pause as a duration.
func (c *Config) ModelLoadRetryDelay() time.Duration {
	return time.Duration(c.ModelLoadRetryDelayMS) * time.Millisecond
}

// PredictionTimeout returns the pipeline call bound as a duration.
func (c *Config) PredictionTimeout() time.Duration {
	return time.Duration(c.PredictionTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.ModelLoadAttempts < 1:
		return fmt.Errorf("%w: model_load_attempts must be at least 1", ErrInvalidConfig)
	case c.ModelLoadRetryDelayMS < 0:
		return fmt.Errorf("%w: model_load_retry_delay_ms must not be negative", ErrInvalidConfig)
	case c.PredictionTimeoutMS < 0:
		return fmt.Errorf("%w: prediction_timeout_ms must not be negative", ErrInvalidConfig)
	case c.FallbackScore < 0 || c.FallbackScore > 100:
		return fmt.Errorf("%w: fallback_score must be within [0, 100]", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
