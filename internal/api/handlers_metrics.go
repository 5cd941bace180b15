package api

import (
	"net/http"
	"strconv"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
)

// handleMetrics returns portfolio-level metrics over the full monthly
// history. initialInvestment is an optional query parameter.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var initialInvestment float64
	if raw := r.URL.Query().Get("initialInvestment"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, r, apperrors.NewValidationError("initialInvestment must be a number"))
			return
		}
		initialInvestment = v
	}

	metrics, err := s.summaryService.Metrics(r.Context(), initialInvestment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// handleYears returns the distinct years that have monthly entries.
func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.summaryService.Years(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, years)
}
