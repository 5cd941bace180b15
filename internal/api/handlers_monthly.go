package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(name + " must be an integer")
	}
	return &v, nil
}

// handleListMonthly returns monthly entries with optional year and
// walletId filters.
func (s *Server) handleListMonthly(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondError(w, r, err)
		return
	}

	filters := &storage.MonthlyEntryFilters{Year: year}
	if walletID := r.URL.Query().Get("walletId"); walletID != "" {
		filters.WalletID = &walletID
	}

	entries, err := s.entryService.ListMonthly(r.Context(), filters)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleGetMonthly returns a single monthly entry by id.
func (s *Server) handleGetMonthly(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, err := s.entryService.GetMonthly(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// handleCreateMonthly creates a monthly entry.
func (s *Server) handleCreateMonthly(w http.ResponseWriter, r *http.Request) {
	var input service.CreateMonthlyEntryInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.entryService.CreateMonthly(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// handleUpdateMonthly applies a partial update to a monthly entry.
func (s *Server) handleUpdateMonthly(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input service.UpdateMonthlyEntryInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.entryService.UpdateMonthly(r.Context(), id, &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// handleDeleteMonthly removes a monthly entry.
func (s *Server) handleDeleteMonthly(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.entryService.DeleteMonthly(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleBulkUpsertMonthly inserts or updates a batch of monthly entries.
func (s *Server) handleBulkUpsertMonthly(w http.ResponseWriter, r *http.Request) {
	var input service.BulkUpsertMonthlyInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}
	if len(input.Entries) == 0 {
		respondError(w, r, apperrors.NewValidationError("entries cannot be empty"))
		return
	}

	entries, err := s.entryService.BulkUpsertMonthly(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

// handleMonthlySummary returns the per-month summary for a year,
// defaulting to the current year.
func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year := time.Now().UTC().Year()
	if y, err := queryInt(r, "year"); err != nil {
		respondError(w, r, err)
		return
	} else if y != nil {
		year = *y
	}

	summary, err := s.summaryService.MonthlySummary(r.Context(), year)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
