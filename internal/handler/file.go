package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/domain/services"
	"loandesk/internal/httputil"
)

// FileHandler handles file registration and retrieval.
// The object store write happens elsewhere; this handler records the result
// and lets the resolver decide which folder the record attaches to.
type FileHandler struct {
	fileRepo repositories.FileRepository
	resolver services.UploadResolver
	logger   *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(
	fileRepo repositories.FileRepository,
	resolver services.UploadResolver,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		fileRepo: fileRepo,
		resolver: resolver,
		logger:   logger,
	}
}

type registerFileRequest struct {
	FolderID     string `json:"folder_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Filename     string `json:"filename"`
	StorageKey   string `json:"storage_key"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
}

// RegisterFile records an uploaded file, resolving its folder association
// POST /api/applications/{id}/files
func (h *FileHandler) RegisterFile(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")

	var req registerFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Filename == "" {
		respondDomainError(w, &domain.InvalidParameterError{Field: "filename", Message: "is required"})
		return
	}
	if req.StorageKey == "" {
		respondDomainError(w, &domain.InvalidParameterError{Field: "storage_key", Message: "is required"})
		return
	}

	params, err := services.NewUploadParams(appID, req.FolderID, req.DocumentType)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	folderID, err := h.resolver.ResolveFolderForUpload(r.Context(), params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	now := time.Now()
	file := &models.File{
		ApplicationID: appID,
		FolderID:      &folderID,
		DocumentType:  req.DocumentType,
		Filename:      req.Filename,
		StorageKey:    req.StorageKey,
		Size:          req.Size,
		ContentType:   req.ContentType,
		UploadStatus:  models.UploadStatusUploading,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.fileRepo.Create(r.Context(), file); err != nil {
		respondDomainError(w, err)
		return
	}

	h.logger.Info("file registered",
		"id", file.ID,
		"application_id", appID,
		"folder_id", folderID,
		"document_type", req.DocumentType,
	)

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// ListFiles lists an application's files, optionally limited to one folder
// via ?folder_id=
// GET /api/applications/{id}/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")
	if _, err := uuid.Parse(appID); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	var files []models.File
	var err error
	if folderID := r.URL.Query().Get("folder_id"); folderID != "" {
		if _, err := uuid.Parse(folderID); err != nil {
			respondDomainError(w, &domain.InvalidParameterError{Field: "folder_id", Message: "must be a valid UUID"})
			return
		}
		files, err = h.fileRepo.ListByFolder(r.Context(), folderID, appID)
	} else {
		files, err = h.fileRepo.ListByApplication(r.Context(), appID)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if files == nil {
		files = []models.File{}
	}
	httputil.RespondJSON(w, http.StatusOK, files)
}

// GetFile retrieves a file record. The owning application id comes in as
// ?application_id= so the lookup stays application-scoped.
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	appID := r.URL.Query().Get("application_id")
	if _, err := uuid.Parse(appID); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "application_id", Message: "must be a valid UUID"})
		return
	}

	file, err := h.fileRepo.GetByID(r.Context(), id, appID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

type updateFileStatusRequest struct {
	ApplicationID string `json:"application_id"`
	UploadStatus  string `json:"upload_status"`
}

// UpdateFileStatus marks an upload completed or failed
// PATCH /api/files/{id}/status
func (h *FileHandler) UpdateFileStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "id", Message: "must be a valid UUID"})
		return
	}

	var req updateFileStatusRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := models.UploadStatus(req.UploadStatus)
	switch status {
	case models.UploadStatusUploading, models.UploadStatusCompleted, models.UploadStatusFailed:
	default:
		respondDomainError(w, &domain.InvalidParameterError{Field: "upload_status", Message: "must be uploading, completed or failed"})
		return
	}

	if _, err := uuid.Parse(req.ApplicationID); err != nil {
		respondDomainError(w, &domain.InvalidParameterError{Field: "application_id", Message: "must be a valid UUID"})
		return
	}

	if err := h.fileRepo.UpdateStatus(r.Context(), id, req.ApplicationID, status); err != nil {
		respondDomainError(w, err)
		return
	}

	file, err := h.fileRepo.GetByID(r.Context(), id, req.ApplicationID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}
