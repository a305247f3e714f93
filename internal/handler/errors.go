package handler

import (
	"errors"
	"net/http"

	"loandesk/internal/domain"
	"loandesk/internal/httputil"
)

// respondDomainError maps domain errors onto HTTP responses. Typed errors
// carry their own status via the HTTPError interface; bare sentinels fall
// back to errors.Is matching. Anything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	var pErr *domain.InvalidParameterError
	if errors.As(err, &pErr) {
		httputil.RespondErrorWithExtras(w, pErr.StatusCode(), pErr.Error(),
			map[string]interface{}{"field": pErr.Field})
		return
	}

	var cErr *domain.ConsolidationFailedError
	if errors.As(err, &cErr) {
		// Transient: a retry of the same call is safe
		w.Header().Set("Retry-After", "1")
		httputil.RespondErrorWithExtras(w, cErr.StatusCode(), cErr.Error(),
			map[string]interface{}{"application_id": cErr.ApplicationID, "retryable": true})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
