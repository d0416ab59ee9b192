package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/grading"
	"github.com/okian/edumetrics/internal/domain/prediction"
	"github.com/okian/edumetrics/internal/domain/student"
	"github.com/okian/edumetrics/pkg/logger"
	"github.com/okian/edumetrics/pkg/metrics"
)

// Recorder receives forecast metrics.
type Recorder interface {
	RecordPrediction(outcome string, latencyMs float64)
	RecordReport(tier string, degraded bool)
	RecordAdviceRule(rule string)
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithFallbackScore sets the score reported when the pipeline fails.
func WithFallbackScore(score float64) Option {
	return func(a *Assembler) {
		a.fallbackScore = grading.Normalize(score)
	}
}

// WithFallbackEnabled controls whether pipeline failures produce degraded
// reports (true) or are returned to the caller (false).
func WithFallbackEnabled(enabled bool) Option {
	return func(a *Assembler) {
		a.fallbackEnabled = enabled
	}
}

// WithAdviceEngine replaces the default advice rule table.
func WithAdviceEngine(e *advice.Engine) Option {
	return func(a *Assembler) {
		if e != nil {
			a.advice = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// WithRecorder sets where forecast metrics go.
func WithRecorder(r Recorder) Option {
	return func(a *Assembler) {
		if r != nil {
			a.metrics = r
		}
	}
}

// WithClock sets the time source for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator sets the report id source.
func WithIDGenerator(next func() string) Option {
	return func(a *Assembler) {
		if next != nil {
			a.newID = next
		}
	}
}

// Assembler runs the pipeline for a record and turns the outcome into a
// Report. It holds no per-request state and is safe for concurrent use.
type Assembler struct {
	pipeline        prediction.Pipeline
	advice          *advice.Engine
	fallbackScore   float64
	fallbackEnabled bool
	log             logger.Logger
	metrics         Recorder
	now             func() time.Time
	newID           func() string
}

// NewAssembler builds an assembler over an already loaded pipeline.
func NewAssembler(p prediction.Pipeline, opts ...Option) *Assembler {
	a := &Assembler{
		pipeline:        p,
		advice:          advice.NewEngine(advice.DefaultRules()),
		fallbackScore:   DefaultFallbackScore,
		fallbackEnabled: true,
		log:             logger.Nop(),
		metrics:         metrics.Default(),
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.pipeline == nil {
		a.pipeline = prediction.Unavailable(nil)
	}
	return a
}

// FallbackScore returns the configured fallback score.
func (a *Assembler) FallbackScore() float64 { return a.fallbackScore }

// Advice runs only the advice engine.
func (a *Assembler) Advice(rec student.Record) []advice.Item {
	items := a.advice.Generate(rec)
	for _, it := range items {
		a.metrics.RecordAdviceRule(it.Rule)
	}
	return items
}

// Assemble predicts a score for rec and builds its report. Pipeline errors
// become a degraded report unless the fallback is disabled, in which case the
// error is returned.
func (a *Assembler) Assemble(ctx context.Context, rec student.Record) (Report, error) {
	start := time.Now()
	raw, err := a.pipeline.Predict(ctx, rec)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = Reason(err)
		fields := []logger.Field{
			logger.String("reason", outcome),
			logger.Bool("fallback_enabled", a.fallbackEnabled),
			logger.Error(err),
		}
		if outcome == ReasonSchemaMismatch {
			a.log.Error(ctx, "model artifact does not match the record schema", fields...)
		} else {
			a.log.Warn(ctx, "prediction failed", fields...)
		}
	}
	a.metrics.RecordPrediction(outcome, latencyMs)

	r, err := a.Build(rec, raw, err)
	if err != nil {
		return Report{}, err
	}
	if !r.Degraded {
		r.ModelVersion = prediction.VersionOf(a.pipeline)
	}
	return r, nil
}

// Build turns a pipeline outcome into a report. On success the raw score is
// normalized and tiered; on failure the fallback score stands in and the
// report is marked degraded. Advice and display metrics are always computed.
func (a *Assembler) Build(rec student.Record, raw float64, predErr error) (Report, error) {
	if predErr != nil && !a.fallbackEnabled {
		return Report{}, predErr
	}

	r := Report{
		ID:          a.newID(),
		GeneratedAt: a.now().UTC(),
		Advice:      a.Advice(rec),
		Metrics:     DeriveMetrics(rec),
		Signals:     Signals(rec),
	}
	if predErr != nil {
		r.Score = a.fallbackScore
		r.Degraded = true
		r.DegradedReason = Reason(predErr)
	} else {
		r.Score = grading.Normalize(raw)
		r.RawScore = &raw
	}
	r.Tier = grading.Describe(grading.Classify(r.Score))

	a.metrics.RecordReport(string(r.Tier.Tier), r.Degraded)
	return r, nil
}
