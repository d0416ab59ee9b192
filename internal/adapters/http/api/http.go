// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	service "github.com/okian/edumetrics/internal/app"
	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/report"
	"github.com/okian/edumetrics/internal/domain/student"
	"github.com/okian/edumetrics/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps a feature record payload.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Forecast(ctx context.Context, rec student.Record) (report.Report, error)
	Advice(ctx context.Context, rec student.Record) ([]advice.Item, error)
	Health(ctx context.Context) Health
}

// Health mirrors the service health summary.
type Health = service.Health

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	forecastHandler *ForecastHandler
	catalogHandler  *CatalogHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(deps),
		statsHandler:    NewStatsHandler(statsProvider),
		forecastHandler: NewForecastHandler(deps),
		catalogHandler:  NewCatalogHandler(),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/forecasts", MetricsMiddleware(s.forecastHandler.HandlePostForecast, "forecasts")).Methods(http.MethodPost)
	v1.HandleFunc("/advice", MetricsMiddleware(s.forecastHandler.HandlePostAdvice, "advice")).Methods(http.MethodPost)
	v1.HandleFunc("/tiers", MetricsMiddleware(s.catalogHandler.HandleTiers, "tiers")).Methods(http.MethodGet)
	v1.HandleFunc("/schema", MetricsMiddleware(s.catalogHandler.HandleSchema, "schema")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeRecord reads a Draft from the body and converts it to a Record.
// Unknown fields are rejected so typos do not silently become missing values.
func decodeRecord(w http.ResponseWriter, r *http.Request) (student.Record, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var d student.Draft
	if err := dec.Decode(&d); err != nil {
		return student.Record{}, fmt.Errorf("%w: decode record: %w", ErrBadRequest, err)
	}
	rec, err := d.Record()
	if err != nil {
		return student.Record{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return rec, nil
}
