package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/edumetrics/internal/app"
	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/student"
)

// ForecastHandler serves report and advice requests.
type ForecastHandler struct {
	deps Dependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps Dependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

type adviceResponse struct {
	Advice []advice.Item `json:"advice"`
}

// HandlePostForecast handles POST /v1/forecasts requests.
func (h *ForecastHandler) HandlePostForecast(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	rep, err := h.deps.Forecast(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePostAdvice handles POST /v1/advice requests.
func (h *ForecastHandler) HandlePostAdvice(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	items, err := h.deps.Advice(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adviceResponse{Advice: items})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, student.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
	case errors.Is(err, service.ErrForecastUnavailable), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", fmt.Errorf("%w: %w", ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
