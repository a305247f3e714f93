package repositories

import (
	"context"

	"loandesk/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByIDOnly retrieves a folder by ID without application scoping.
	// Used for cross-application ownership checks.
	GetByIDOnly(ctx context.Context, id string) (*models.Folder, error)

	// ListChildren lists immediate child folders of folderID (nil = top level)
	ListChildren(ctx context.Context, folderID *string, applicationID string) ([]models.Folder, error)

	// ListTopLevel lists folders with no parent for an application, ordered
	// by creation time ascending with id as tie-break
	ListTopLevel(ctx context.Context, applicationID string) ([]models.Folder, error)

	// ListTopLevelForUpdate is ListTopLevel with the rows locked
	// (SELECT ... FOR UPDATE). Must be called inside a transaction.
	ListTopLevelForUpdate(ctx context.Context, applicationID string) ([]models.Folder, error)

	// CreateIfNotExists creates a folder only if no folder with the same name
	// exists under the same parent; returns the existing one otherwise
	CreateIfNotExists(ctx context.Context, applicationID string, parentID *string, name string, folderType models.FolderType) (*models.Folder, error)

	// ReassignChildren re-points every folder whose parent is fromID to toID,
	// returning the number of rows moved
	ReassignChildren(ctx context.Context, applicationID, fromID, toID string) (int, error)

	// Delete deletes a folder row
	Delete(ctx context.Context, id, applicationID string) error

	// ListApplicationIDsWithDuplicateRoots returns ids of applications that
	// currently have more than one top-level folder
	ListApplicationIDsWithDuplicateRoots(ctx context.Context) ([]string, error)
}
