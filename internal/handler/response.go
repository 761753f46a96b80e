package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/event-forum/internal/apperror"
)

// Client-facing error texts. Details stay in the logs.
const (
	msgInvalidRequest = "Invalid request"
	msgNotFound       = "Not found"
	msgForbidden      = "Forbidden"
	msgInternal       = "Something went wrong"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeOK sends the plain-text acknowledgement used by mutating endpoints.
func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statusFor maps an application error to its HTTP status and public text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, msgInvalidRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// writeError logs err and sends the generic body for its class. Only
// server-side failures are logged at error level.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := statusFor(err)

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "" {
		attrs = append(attrs, slog.String("field", appErr.Field))
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.LogAttrs(r.Context(), level, "request failed", attrs...)

	writeJSON(w, status, ErrorResponse{Error: msg})
}
