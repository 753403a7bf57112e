package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Detail: detail})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, simplenotes.ErrInvalidRequest), errors.Is(err, simplenotes.ErrContentRequired):
		return http.StatusBadRequest
	case errors.Is(err, simplenotes.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and answers with its mapped status. Server
// errors get a fixed detail so backend messages are not leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), msg, "error", err)
		writeError(w, r, status, msg)
	case http.StatusNotFound:
		writeError(w, r, status, "file not found")
	default:
		logger.WarnContext(r.Context(), msg, "error", err)
		writeError(w, r, status, err.Error())
	}
}
