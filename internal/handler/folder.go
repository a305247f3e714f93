package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/domain/services"
	"loandesk/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderRepo    repositories.FolderRepository
	consolidation services.ConsolidationService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(
	folderRepo repositories.FolderRepository,
	consolidation services.ConsolidationService,
	logger *slog.Logger,
) *FolderHandler {
	return &FolderHandler{
		folderRepo:    folderRepo,
		consolidation: consolidation,
		logger:        logger,
	}
}

// ListFolders lists an application's folders. With ?parent_id= it lists the
// children of that folder; without it, the top-level folders.
// GET /api/applications/{id}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")
	if _, err := uuid.Parse(appID); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	var parentID *string
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			respondDomainError(w, &domain.InvalidParameterError{Field: "parent_id", Message: "must be a valid UUID"})
			return
		}
		parentID = &raw
	}

	folders, err := h.folderRepo.ListChildren(r.Context(), parentID, appID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if folders == nil {
		folders = []models.Folder{}
	}
	httputil.RespondJSON(w, http.StatusOK, folders)
}

// ResolveParentFolder returns the application's single parent folder,
// consolidating duplicates first if legacy data holds more than one
// POST /api/applications/{id}/folders/resolve-parent
func (h *FolderHandler) ResolveParentFolder(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")
	if _, err := uuid.Parse(appID); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	folder, err := h.consolidation.ResolveParentFolder(r.Context(), appID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}
