package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ravitejamarri/zypool/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError answers a request rejected before reaching the service layer
// (missing or malformed body, bad parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// serviceError maps an error returned by a service onto the HTTP error
// contract. notFound is the message used for domain.ErrNotFound, because the
// handler is the layer that knows what was being looked up.
func serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrInvalidOperation):
		writeError(w, http.StatusConflict, "invalid_operation", unwrapMessage(err, domain.ErrInvalidOperation))
	default:
		slog.ErrorContext(r.Context(), "unhandled service error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part that follows the sentinel.
// e.g. "service.TripService.Create: validation error: an offer needs at least
// one seat" → "an offer needs at least one seat"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	if _, after, ok := strings.Cut(msg, sentinel.Error()+": "); ok && after != "" {
		return after
	}
	return sentinel.Error()
}

// decodeJSON reads the request body into dst. A body over the size limit is
// answered with 413; any other decode failure with 422. It reports whether
// the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		requestError(w, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		requestError(w, "invalid request body")
		return false
	}
	return true
}
