package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrForecastUnavailable = errors.New("forecast unavailable")
)
