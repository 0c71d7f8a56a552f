package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps a repository error to the right client or server
// status. Validation errors are detected via the core sentinels so they
// surface as client errors even when wrapped.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Store operation failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrZeroAmount,
		core.ErrInvalidType,
		core.ErrInvalidKind,
		core.ErrInvalidMonth,
		core.ErrInvalidDate,
		core.ErrEmptyName,
		core.ErrMissingAccount,
		core.ErrMissingCategory,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeJSON decodes the request body into v, using json.Number so decimal
// amounts survive the trip without float truncation.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
