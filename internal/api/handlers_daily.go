package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
)

// handleListDaily returns daily entries in a date range. The range
// defaults to the current month.
func (s *Server) handleListDaily(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			respondError(w, r, apperrors.NewValidationError("from must be in YYYY-MM-DD format"))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			respondError(w, r, apperrors.NewValidationError("to must be in YYYY-MM-DD format"))
			return
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}

	entries, err := s.entryService.ListDaily(r.Context(), from, to)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleCreateDaily creates a daily entry.
func (s *Server) handleCreateDaily(w http.ResponseWriter, r *http.Request) {
	var input service.CreateDailyEntryInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.entryService.CreateDaily(r.Context(), &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// handleUpdateDaily applies a partial update to a daily entry.
func (s *Server) handleUpdateDaily(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input service.UpdateDailyEntryInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	entry, err := s.entryService.UpdateDaily(r.Context(), id, &input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// handleDeleteDaily removes a daily entry.
func (s *Server) handleDeleteDaily(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.entryService.DeleteDaily(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleDailySnapshots returns per-day portfolio totals for a month,
// defaulting to the current month.
func (s *Server) handleDailySnapshots(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if y, err := queryInt(r, "year"); err != nil {
		respondError(w, r, err)
		return
	} else if y != nil {
		year = *y
	}
	if m, err := queryInt(r, "month"); err != nil {
		respondError(w, r, err)
		return
	} else if m != nil {
		month = *m
	}

	snapshots, err := s.summaryService.DailySnapshots(r.Context(), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshots)
}
