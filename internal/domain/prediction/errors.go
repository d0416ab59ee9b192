package prediction

import "errors"

// Sentinel error kinds for the prediction pipeline. Callers match them with
// errors.Is; the wrapped cause carries the detail.
var (
	// ErrModelUnavailable means no usable artifact is loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch means the artifact and the record schema disagree.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrPredictionFailed covers any other inference failure.
	ErrPredictionFailed = errors.New("prediction failed")
	// ErrTimeout is wrapped by ErrPredictionFailed when a call runs out of time.
	ErrTimeout = errors.New("prediction timed out")
)
