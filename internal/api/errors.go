package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/ShinraXBT/crypto-portfolio-tracker/internal/errors"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes payload as JSON with the given status. A nil
// payload writes no body.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.GetGlobalLogger().WithError(err).Error("failed to encode response")
	}
}

// respondError maps an error to its HTTP status and a stable body
// shape. Internal errors keep their details server-side.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.GetHTTPStatusCode(err)
	message := err.Error()

	if !apperrors.IsUserError(err) {
		logging.GetGlobalLogger().WithError(err).WithFields(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		message = "internal server error"
	}

	respondJSON(w, status, errorResponse{Error: message})
}

// parseJSONBody decodes the request body into dest, rejecting unknown
// top-level syntax errors with a validation error.
func parseJSONBody(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return apperrors.NewValidationError("request body is required")
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}
