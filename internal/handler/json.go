package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/civicdocs/formportal/internal/notify"
	"github.com/civicdocs/formportal/internal/service"
	"github.com/civicdocs/formportal/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDraftSubmitted),
		errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, notify.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPersistence):
		// Retryable: nothing was partially persisted.
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, try again")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
