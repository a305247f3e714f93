package repositories

import (
	"context"

	"loandesk/internal/domain/models"
)

// FileRepository defines data access operations for file records
type FileRepository interface {
	// Create inserts a new file record
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file by ID, scoped to an application
	GetByID(ctx context.Context, id, applicationID string) (*models.File, error)

	// ListByApplication lists all files for an application
	ListByApplication(ctx context.Context, applicationID string) ([]models.File, error)

	// ListByFolder lists files attached to a folder
	ListByFolder(ctx context.Context, folderID, applicationID string) ([]models.File, error)

	// ReassignFolder re-points every file whose folder is fromID to toID,
	// returning the number of rows moved
	ReassignFolder(ctx context.Context, applicationID, fromID, toID string) (int, error)

	// UpdateStatus updates a file's upload status
	UpdateStatus(ctx context.Context, id, applicationID string, status models.UploadStatus) error
}
