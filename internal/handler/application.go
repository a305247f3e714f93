package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/httputil"
)

// ApplicationHandler handles loan application HTTP requests
type ApplicationHandler struct {
	appRepo repositories.ApplicationRepository
	logger  *slog.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appRepo repositories.ApplicationRepository, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{appRepo: appRepo, logger: logger}
}

// HealthCheck responds to health probes
// GET /health
func (h *ApplicationHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createApplicationRequest struct {
	UserID string `json:"user_id"`
}

// CreateApplication creates a new loan application in draft status
// POST /api/applications
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondDomainError(w, &domain.InvalidParameterError{Field: "user_id", Message: "is required"})
		return
	}

	now := time.Now()
	app := &models.Application{
		UserID:    req.UserID,
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.appRepo.Create(r.Context(), app); err != nil {
		respondDomainError(w, err)
		return
	}

	h.logger.Info("application created", "id", app.ID, "user_id", app.UserID)
	httputil.RespondJSON(w, http.StatusCreated, app)
}

// GetApplication retrieves an application by ID
// GET /api/applications/{id}
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	app, err := h.appRepo.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, app)
}

// ListApplications lists all applications
// GET /api/applications
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.appRepo.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if apps == nil {
		apps = []models.Application{}
	}
	httputil.RespondJSON(w, http.StatusOK, apps)
}
