package prediction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Default loader configuration constants.
const (
	defaultLoadAttempts = 2 // one retry
	defaultRetryDelay   = 500 * time.Millisecond
)

// LoadOption applies a configuration option to Load.
type LoadOption func(*loader)

// WithAttempts sets how many times Load tries to read the artifact.
func WithAttempts(n int) LoadOption {
	return func(l *loader) {
		if n > 0 {
			l.attempts = n
		}
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) LoadOption {
	return func(l *loader) {
		if d >= 0 {
			l.delay = d
		}
	}
}

// WithAttemptHook registers a callback invoked after every attempt with its
// 1-based number and outcome (nil on success).
func WithAttemptHook(fn func(attempt int, err error)) LoadOption {
	return func(l *loader) {
		if fn != nil {
			l.hook = fn
		}
	}
}

type loader struct {
	attempts int
	delay    time.Duration
	hook     func(int, error)
}

// Load reads the artifact at path and compiles it into a pipeline. Missing or
// corrupt artifacts are retried; a schema mismatch is returned at once since
// rereading the same file cannot fix it.
func Load(ctx context.Context, path string, opts ...LoadOption) (*Linear, error) {
	l := &loader{
		attempts: defaultLoadAttempts,
		delay:    defaultRetryDelay,
		hook:     func(int, error) {},
	}
	for _, opt := range opts {
		opt(l)
	}

	var lastErr error
	for attempt := range l.attempts {
		p, err := loadOnce(path)
		l.hook(attempt+1, err)
		if err == nil {
			return p, nil
		}
		lastErr = err
		if errors.Is(err, ErrSchemaMismatch) || attempt == l.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
		case <-time.After(l.delay):
		}
	}
	return nil, lastErr
}

func loadOnce(path string) (*Linear, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no artifact path configured", ErrModelUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrModelUnavailable, path, err)
	}
	a, err := ParseArtifact(data)
	if err != nil {
		return nil, err
	}
	return NewLinear(a)
}
