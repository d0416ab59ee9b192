package api

import (
	"net/http"

	"github.com/okian/edumetrics/internal/domain/grading"
	"github.com/okian/edumetrics/internal/domain/student"
)

// CatalogHandler serves the static tier and schema metadata.
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

type thresholds struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Pass        float64 `json:"pass"`
	Distinction float64 `json:"distinction"`
}

type tiersResponse struct {
	Tiers      []grading.Info `json:"tiers"`
	Thresholds thresholds     `json:"thresholds"`
}

type schemaResponse struct {
	Fields []student.Field `json:"fields"`
}

// HandleTiers handles GET /v1/tiers requests.
func (h *CatalogHandler) HandleTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tiersResponse{
		Tiers: grading.Tiers(),
		Thresholds: thresholds{
			Min:         grading.MinScore,
			Max:         grading.MaxScore,
			Pass:        grading.PassCutoff,
			Distinction: grading.DistinctionCutoff,
		},
	})
}

// HandleSchema handles GET /v1/schema requests.
func (h *CatalogHandler) HandleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schemaResponse{Fields: student.Schema()})
}
