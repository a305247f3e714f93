package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (application_id, parent_id, name, folder_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Folders)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.ApplicationID,
		folder.ParentID,
		folder.Name,
		folder.FolderType,
		folder.CreatedAt,
	).Scan(&folder.ID, &folder.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("application %s: %w", folder.ApplicationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByIDOnly retrieves a folder by ID without application scoping
func (r *PostgresFolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, parent_id, name, folder_type, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.ApplicationID,
		&folder.ParentID,
		&folder.Name,
		&folder.FolderType,
		&folder.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// ListChildren lists immediate child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, folderID *string, applicationID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT id, application_id, parent_id, name, folder_type, created_at
			FROM %s
			WHERE application_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, r.tables.Folders)
		args = append(args, applicationID)
	} else {
		query = fmt.Sprintf(`
			SELECT id, application_id, parent_id, name, folder_type, created_at
			FROM %s
			WHERE application_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, r.tables.Folders)
		args = append(args, applicationID, *folderID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListTopLevel lists folders with no parent for an application.
// Ordering is created_at ASC with id as tie-break, so the merge primary is
// the same folder on every run regardless of plan or page layout.
func (r *PostgresFolderRepository) ListTopLevel(ctx context.Context, applicationID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, parent_id, name, folder_type, created_at
		FROM %s
		WHERE application_id = $1 AND parent_id IS NULL
		ORDER BY created_at ASC, id ASC
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list top-level folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// ListTopLevelForUpdate is ListTopLevel with row locks held for the duration
// of the surrounding transaction. Two concurrent consolidations of the same
// application serialize on these locks.
func (r *PostgresFolderRepository) ListTopLevelForUpdate(ctx context.Context, applicationID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, parent_id, name, folder_type, created_at
		FROM %s
		WHERE application_id = $1 AND parent_id IS NULL
		ORDER BY created_at ASC, id ASC
		FOR UPDATE
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("lock top-level folders: %w", err)
	}
	defer rows.Close()

	return scanFolders(rows)
}

// CreateIfNotExists creates a folder only if no folder with the same name
// exists under the same parent. The check-then-insert pair is backed by the
// sibling-name unique index: when a concurrent caller wins the insert race,
// the unique violation is swallowed and the winner's row is returned, so
// both callers resolve to the same folder id.
func (r *PostgresFolderRepository) CreateIfNotExists(ctx context.Context, applicationID string, parentID *string, name string, folderType models.FolderType) (*models.Folder, error) {
	existing, err := r.getByNameAndParent(ctx, applicationID, name, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	folder := &models.Folder{
		ApplicationID: applicationID,
		ParentID:      parentID,
		Name:          name,
		FolderType:    folderType,
		CreatedAt:     time.Now(),
	}

	if err := r.Create(ctx, folder); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race; re-read the row the winner inserted
			winner, gerr := r.getByNameAndParent(ctx, applicationID, name, parentID)
			if gerr != nil {
				return nil, gerr
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, err
	}

	return folder, nil
}

// ReassignChildren re-points every folder whose parent is fromID to toID
func (r *PostgresFolderRepository) ReassignChildren(ctx context.Context, applicationID, fromID, toID string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1
		WHERE application_id = $2 AND parent_id = $3
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, toID, applicationID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign child folders: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// Delete deletes a folder row
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, applicationID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND application_id = $2
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, applicationID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s still referenced: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListApplicationIDsWithDuplicateRoots returns ids of applications that
// currently have more than one top-level folder
func (r *PostgresFolderRepository) ListApplicationIDsWithDuplicateRoots(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT application_id
		FROM %s
		WHERE parent_id IS NULL
		GROUP BY application_id
		HAVING COUNT(*) > 1
		ORDER BY application_id ASC
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list duplicate-root applications: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan application id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application ids: %w", err)
	}

	return ids, nil
}

func scanFolders(rows pgx.Rows) ([]models.Folder, error) {
	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.ApplicationID,
			&folder.ParentID,
			&folder.Name,
			&folder.FolderType,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// getByNameAndParent is a helper to find a folder by name and parent
func (r *PostgresFolderRepository) getByNameAndParent(ctx context.Context, applicationID string, name string, parentID *string) (*models.Folder, error) {
	var query string
	var args []interface{}

	// Ordered so that any pre-constraint duplicates still resolve to the
	// same row on every call
	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, application_id, parent_id, name, folder_type, created_at
			FROM %s
			WHERE application_id = $1 AND name = $2 AND parent_id IS NULL
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		`, r.tables.Folders)
		args = append(args, applicationID, name)
	} else {
		query = fmt.Sprintf(`
			SELECT id, application_id, parent_id, name, folder_type, created_at
			FROM %s
			WHERE application_id = $1 AND name = $2 AND parent_id = $3
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		`, r.tables.Folders)
		args = append(args, applicationID, name, *parentID)
	}

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&folder.ID,
		&folder.ApplicationID,
		&folder.ParentID,
		&folder.Name,
		&folder.FolderType,
		&folder.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get folder by name and parent: %w", err)
	}

	return &folder, nil
}
