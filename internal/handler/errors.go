package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"uigen/internal/domain"
	"uigen/internal/httputil"
)

// handleError maps domain errors to problem responses. Unknown errors are
// logged in full and reported as an opaque 500.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusBadGateway, "upstream provider error")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
