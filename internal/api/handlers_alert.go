package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
)

// handleListAlerts returns alerts, optionally only the active ones.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	alerts, err := s.alertService.List(r.Context(), activeOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// handleGetAlert returns a single alert by id.
func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	alert, err := s.alertService.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

// handleCreateAlert creates a new alert.
func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var input service.CreateAlertInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	alert, err := s.alertService.Create(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, alert)
}

// handleUpdateAlert applies a partial update to an alert.
func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input service.UpdateAlertInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	alert, err := s.alertService.Update(r.Context(), id, &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

// handleDeleteAlert removes an alert.
func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.alertService.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleResetAlert clears an alert's triggered state and re-activates it.
func (s *Server) handleResetAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	alert, err := s.alertService.Reset(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, alert)
}

// handleCheckAlerts evaluates active alerts against the current
// portfolio state. The body may carry external observations.
func (s *Server) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	var input service.CheckAlertsInput
	if r.ContentLength > 0 {
		if err := parseJSONBody(r, &input); err != nil {
			respondError(w, r, err)
			return
		}
	}

	result, err := s.alertService.Check(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
