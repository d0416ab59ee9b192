// Package prediction defines the contract around the pretrained exam score
// model: a stable feature schema, deterministic encoding, and typed failures.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/edumetrics/internal/domain/student"
)

// Pipeline turns a record into a raw score. Implementations are built once
// at startup and shared read-only between requests.
type Pipeline interface {
	// Predict returns the unbounded regression output, honoring ctx.
	Predict(ctx context.Context, rec student.Record) (float64, error)
}

// Versioned is implemented by pipelines that know their artifact version.
type Versioned interface {
	Version() string
}

// VersionOf returns p's artifact version, or "" if it has none.
func VersionOf(p Pipeline) string {
	if v, ok := p.(Versioned); ok {
		return v.Version()
	}
	return ""
}

// unavailable stands in for a pipeline whose artifact could not be loaded.
type unavailable struct {
	cause error
}

// Unavailable returns a pipeline that fails every call with
// ErrModelUnavailable wrapping cause.
func Unavailable(cause error) Pipeline {
	return &unavailable{cause: cause}
}

func (u *unavailable) Predict(context.Context, student.Record) (float64, error) {
	if u.cause == nil {
		return 0, ErrModelUnavailable
	}
	if errors.Is(u.cause, ErrModelUnavailable) {
		return 0, u.cause
	}
	return 0, fmt.Errorf("%w: %w", ErrModelUnavailable, u.cause)
}

type timeoutPipeline struct {
	inner   Pipeline
	timeout time.Duration
}

// WithTimeout bounds every Predict call on p. A call that runs out of time
// fails with ErrPredictionFailed wrapping ErrTimeout. A non-positive timeout
// returns p unchanged.
func WithTimeout(p Pipeline, timeout time.Duration) Pipeline {
	if timeout <= 0 {
		return p
	}
	return &timeoutPipeline{inner: p, timeout: timeout}
}

func (t *timeoutPipeline) Version() string { return VersionOf(t.inner) }

func (t *timeoutPipeline) Predict(ctx context.Context, rec student.Record) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		score float64
		err   error
	}
	done := make(chan result, 1)
	go func() {
		score, err := t.inner.Predict(ctx, rec)
		done <- result{score: score, err: err}
	}()

	select {
	case r := <-done:
		return r.score, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: %w after %s", ErrPredictionFailed, ErrTimeout, t.timeout)
		}
		return 0, fmt.Errorf("%w: %w", ErrPredictionFailed, ctx.Err())
	}
}
