package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/domain"
	"folio/internal/httputil"
)

// handleError maps domain error categories to HTTP status codes. Anything
// outside the taxonomy is a 500 and gets logged with the original error.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		httputil.RespondError(w, http.StatusConflict, conflict.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
