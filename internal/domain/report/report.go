// Package report composes the tier, advice and display metrics of one
// forecast into a single presentation-ready value.
package report

import (
	"errors"
	"math"
	"time"

	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/grading"
	"github.com/okian/edumetrics/internal/domain/prediction"
	"github.com/okian/edumetrics/internal/domain/student"
)

// Default fallback score used when the pipeline fails.
const DefaultFallbackScore = 72.4

// Reasons a report can be degraded.
const (
	ReasonModelUnavailable = "model_unavailable"
	ReasonSchemaMismatch   = "schema_mismatch"
	ReasonPredictionFailed = "prediction_failed"
)

// Sleep quality labels.
const (
	SleepGood = "Good"
	SleepLow  = "Low"

	goodSleepHours = 7.0
)

// Signal bands.
const (
	BandStrong   = "strong"
	BandModerate = "moderate"
	BandWeak     = "weak"
)

// Report is the outcome of one forecast. It is built fresh per request.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Score    float64      `json:"score"`
	RawScore *float64     `json:"raw_score,omitempty"`
	Tier     grading.Info `json:"tier"`

	Advice  []advice.Item `json:"advice"`
	Metrics Metrics       `json:"metrics"`
	Signals []Signal      `json:"signals"`

	// Degraded is set when Score is the configured fallback rather than a
	// model output. Consumers must show it.
	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`
	ModelVersion   string `json:"model_version,omitempty"`
}

// Metrics are display values derived from the record alone.
type Metrics struct {
	StudyEfficiencyPct int    `json:"study_efficiency_pct"`
	SleepQualityLabel  string `json:"sleep_quality_label"`
	EngagementScore    int    `json:"engagement_score"`
}

// Signal is one input shown against its domain maximum.
type Signal struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Max     float64 `json:"max"`
	Percent int     `json:"percent"`
	Band    string  `json:"band"`
}

// round matches the half-to-even rounding the display figures were
// specified with, so 62.5 becomes 62.
func round(x float64) int {
	return int(math.RoundToEven(x))
}

// DeriveMetrics computes the display metrics of rec.
func DeriveMetrics(rec student.Record) Metrics {
	m := Metrics{
		StudyEfficiencyPct: min(round(rec.HoursStudied/40*100), 100),
		SleepQualityLabel:  SleepLow,
		EngagementScore:    round(rec.AttendancePct/100*50 + rec.TutoringSessions/10*50),
	}
	if rec.SleepHours >= goodSleepHours {
		m.SleepQualityLabel = SleepGood
	}
	return m
}

// Signals returns the input overview in display order.
func Signals(rec student.Record) []Signal {
	raw := []struct {
		label string
		value float64
		max   float64
	}{
		{"Study Hours", rec.HoursStudied, 40},
		{"Attendance", rec.AttendancePct, 100},
		{"Prev. Score", rec.PreviousScoreAvg, 100},
		{"Sleep", rec.SleepHours, 12},
		{"Exercise", rec.PhysicalActivityHours, 20},
		{"Tutoring", rec.TutoringSessions, 10},
	}
	out := make([]Signal, len(raw))
	for i, r := range raw {
		pct := round(r.value / r.max * 100)
		out[i] = Signal{Label: r.label, Value: r.value, Max: r.max, Percent: pct, Band: band(pct)}
	}
	return out
}

func band(pct int) string {
	switch {
	case pct >= 70:
		return BandStrong
	case pct >= 40:
		return BandModerate
	default:
		return BandWeak
	}
}

// Reason classifies a pipeline error. Schema mismatch wins over unavailable
// since an unloadable artifact may carry both.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, prediction.ErrSchemaMismatch):
		return ReasonSchemaMismatch
	case errors.Is(err, prediction.ErrModelUnavailable):
		return ReasonModelUnavailable
	default:
		return ReasonPredictionFailed
	}
}
