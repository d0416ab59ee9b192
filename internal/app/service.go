// Package service wires the prediction pipeline, advice engine and report
// assembler into the dependencies required by the HTTP API and CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/prediction"
	"github.com/okian/edumetrics/internal/domain/report"
	"github.com/okian/edumetrics/internal/domain/student"
	"github.com/okian/edumetrics/pkg/logger"
	"github.com/okian/edumetrics/pkg/metrics"
)

// Health status values.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Health summarizes whether forecasts come from the model.
type Health struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
}

// Service implements the API dependencies for the forecast system.
type Service struct {
	mu sync.RWMutex

	// Configuration
	modelPath         string
	loadAttempts      int
	retryDelay        time.Duration
	predictionTimeout time.Duration
	fallbackScore     float64
	fallbackEnabled   bool

	// Core components
	pipeline  prediction.Pipeline
	injected  bool
	assembler *report.Assembler
	loadErr   error

	// State
	started   bool
	startedAt time.Time
	forecasts atomic.Int64
	degraded  atomic.Int64
	adviceReq atomic.Int64

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithModelPath sets where the model artifact is read from.
func WithModelPath(path string) Option {
	return func(s *Service) {
		s.modelPath = path
	}
}

// WithModelLoadAttempts sets how many times Start tries to load the artifact.
func WithModelLoadAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.loadAttempts = n
		}
	}
}

// WithModelLoadRetryDelay sets the pause between load attempts.
func WithModelLoadRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithPredictionTimeout bounds each pipeline call. Zero disables the bound.
func WithPredictionTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.predictionTimeout = d
		}
	}
}

// WithFallbackScore sets the score used for degraded reports.
func WithFallbackScore(score float64) Option {
	return func(s *Service) {
		s.fallbackScore = score
	}
}

// WithFallbackEnabled controls whether pipeline failures degrade or fail.
func WithFallbackEnabled(enabled bool) Option {
	return func(s *Service) {
		s.fallbackEnabled = enabled
	}
}

// WithPipeline injects a ready pipeline; Start then skips artifact loading.
func WithPipeline(p prediction.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
			s.injected = true
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath:         "models/student_huber_pipeline.json",
		loadAttempts:      2,
		retryDelay:        500 * time.Millisecond,
		predictionTimeout: 2 * time.Second,
		fallbackScore:     report.DefaultFallbackScore,
		fallbackEnabled:   true,
		logger:            nil, // Will be replaced when service starts
		metrics:           metrics.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the model artifact and builds the report assembler. A missing
// or mismatched artifact does not fail Start: the service keeps running and
// serves degraded reports.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting forecast service...")

	if !s.injected {
		s.loadErr = nil
		p, err := prediction.Load(ctx, s.modelPath,
			prediction.WithAttempts(s.loadAttempts),
			prediction.WithRetryDelay(s.retryDelay),
			prediction.WithAttemptHook(s.onLoadAttempt(ctx)),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("start: %w", ctxErr)
		}
		if err != nil {
			s.loadErr = err
			s.pipeline = prediction.Unavailable(err)
			s.logger.Error(ctx, "model artifact unavailable; serving fallback scores",
				logger.String("model_path", s.modelPath),
				logger.String("reason", report.Reason(err)),
				logger.Float64("fallback_score", s.fallbackScore),
				logger.Error(err),
			)
		} else {
			s.pipeline = p
		}
	}

	loaded := s.loadErr == nil
	s.metrics.SetModelLoaded(loaded)

	s.assembler = report.NewAssembler(
		prediction.WithTimeout(s.pipeline, s.predictionTimeout),
		report.WithFallbackScore(s.fallbackScore),
		report.WithFallbackEnabled(s.fallbackEnabled),
		report.WithLogger(s.logger.Named("report")),
		report.WithRecorder(s.metrics),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "forecast service started",
		logger.Bool("model_loaded", loaded),
		logger.String("model_version", prediction.VersionOf(s.pipeline)),
		logger.Duration("prediction_timeout", s.predictionTimeout),
	)

	return nil
}

func (s *Service) onLoadAttempt(ctx context.Context) func(int, error) {
	return func(attempt int, err error) {
		s.metrics.RecordModelLoadAttempt(err)
		if err != nil {
			s.logger.Warn(ctx, "model artifact load attempt failed",
				logger.Int("attempt", attempt),
				logger.Int("max_attempts", s.loadAttempts),
				logger.Error(err),
			)
		}
	}
}

// Stop marks the service as stopped. The pipeline holds no external
// resources, so there is nothing to release.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "forecast service stopped",
		logger.Int("forecasts", int(s.forecasts.Load())),
		logger.Int("degraded", int(s.degraded.Load())),
	)
}

func (s *Service) ready() (*report.Assembler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.assembler, nil
}

// Forecast validates rec and builds its report.
func (s *Service) Forecast(ctx context.Context, rec student.Record) (report.Report, error) {
	a, err := s.ready()
	if err != nil {
		return report.Report{}, err
	}
	if err := rec.Validate(); err != nil {
		return report.Report{}, err
	}

	r, err := a.Assemble(ctx, rec)
	if err != nil {
		s.metrics.RecordErrorByComponent("service", report.Reason(err))
		return report.Report{}, fmt.Errorf("%w: %w", ErrForecastUnavailable, err)
	}
	s.forecasts.Add(1)
	if r.Degraded {
		s.degraded.Add(1)
	}
	s.logger.Debug(ctx, "forecast built",
		logger.String("report_id", r.ID),
		logger.Float64("score", r.Score),
		logger.String("tier", string(r.Tier.Tier)),
		logger.Bool("degraded", r.Degraded),
	)
	return r, nil
}

// Advice validates rec and returns its action plan without predicting.
func (s *Service) Advice(_ context.Context, rec student.Record) ([]advice.Item, error) {
	a, err := s.ready()
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	s.adviceReq.Add(1)
	return a.Advice(rec), nil
}

// Health reports whether forecasts come from the model.
func (s *Service) Health(context.Context) Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := Health{Status: StatusOK, ModelLoaded: s.started && s.loadErr == nil}
	if !h.ModelLoaded {
		h.Status = StatusDegraded
		return h
	}
	h.ModelVersion = prediction.VersionOf(s.pipeline)
	return h
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"model_path":       s.modelPath,
		"model_loaded":     s.started && s.loadErr == nil,
		"fallback_score":   s.fallbackScore,
		"fallback_enabled": s.fallbackEnabled,
		"forecasts":        s.forecasts.Load(),
		"degraded":         s.degraded.Load(),
		"advice_requests":  s.adviceReq.Load(),
	}

	if s.started {
		stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["model_version"] = prediction.VersionOf(s.pipeline)
		if s.loadErr != nil {
			stats["model_error"] = s.loadErr.Error()
		}
	}

	return stats
}
