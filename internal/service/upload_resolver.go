package service

import (
	"context"
	"fmt"
	"log/slog"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/domain/services"
)

type uploadResolver struct {
	folderRepo    repositories.FolderRepository
	consolidation services.ConsolidationService
	logger        *slog.Logger
}

// NewUploadResolver creates a new upload association resolver
func NewUploadResolver(
	folderRepo repositories.FolderRepository,
	consolidation services.ConsolidationService,
	logger *slog.Logger,
) services.UploadResolver {
	return &uploadResolver{
		folderRepo:    folderRepo,
		consolidation: consolidation,
		logger:        logger,
	}
}

// ResolveFolderForUpload decides which folder a new file attaches to.
//
// An explicitly requested folder short-circuits resolution after an ownership
// check: a folder from another application fails with FolderMismatchError,
// never silently resolves. Without an explicit folder the application's
// parent folder is obtained (consolidating duplicates if needed) and, when
// the document type maps to a category, a child folder is created
// idempotently under it. Repeated calls with the same application and
// document type always resolve to the same folder id.
func (r *uploadResolver) ResolveFolderForUpload(ctx context.Context, params services.UploadParams) (string, error) {
	if requested := params.FolderID(); requested != nil {
		folder, err := r.folderRepo.GetByIDOnly(ctx, *requested)
		if err != nil {
			return "", err
		}
		if folder.ApplicationID != params.ApplicationID() {
			return "", &domain.FolderMismatchError{
				FolderID:      folder.ID,
				ApplicationID: params.ApplicationID(),
			}
		}
		return folder.ID, nil
	}

	primary, err := r.consolidation.ResolveParentFolder(ctx, params.ApplicationID())
	if err != nil {
		return "", err
	}

	categoryName, ok := models.CategoryFolderName(params.DocumentType())
	if !ok {
		return primary.ID, nil
	}

	child, err := r.folderRepo.CreateIfNotExists(ctx, params.ApplicationID(), &primary.ID,
		categoryName, models.FolderTypeAutoGenerated)
	if err != nil {
		return "", fmt.Errorf("resolve category folder %q: %w", categoryName, err)
	}

	r.logger.Debug("upload resolved to category folder",
		"application_id", params.ApplicationID(),
		"document_type", params.DocumentType(),
		"folder_id", child.ID,
	)

	return child.ID, nil
}
