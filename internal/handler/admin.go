package handler

import (
	"log/slog"
	"net/http"

	"loandesk/internal/domain/services"
	"loandesk/internal/httputil"
)

// AdminHandler exposes maintenance operations
type AdminHandler struct {
	sweep  services.SweepService
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sweep services.SweepService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{sweep: sweep, logger: logger}
}

// RunSweep runs the folder integrity sweep and returns the cleanup report.
// Per-application failures are recorded inside the report, not surfaced as
// an HTTP error; only a failure to enumerate violations is.
// POST /admin/integrity/sweep
func (h *AdminHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	report, err := h.sweep.Run(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
