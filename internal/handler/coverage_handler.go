package handler

import (
	"net/http"

	"github.com/aurasat/backend/internal/catalog"
	"github.com/aurasat/backend/internal/model"
)

// CoverageHandler serves the coverage map data.
type CoverageHandler struct {
	catalog *catalog.Catalog
}

func NewCoverageHandler(c *catalog.Catalog) *CoverageHandler {
	return &CoverageHandler{catalog: c}
}

type coverageResponse struct {
	Center []float64            `json:"center"`
	Zoom   int                  `json:"zoom"`
	Sites  []model.CoverageSite `json:"sites"`
}

// List handles GET /api/coverage. The optional q parameter filters sites by name.
func (h *CoverageHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, coverageResponse{
		Center: h.catalog.Map.Center,
		Zoom:   h.catalog.Map.Zoom,
		Sites:  h.catalog.SearchCoverage(r.URL.Query().Get("q")),
	})
}

// Get handles GET /api/coverage/{id}.
func (h *CoverageHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, ok := h.catalog.CoverageSite(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, site)
}
