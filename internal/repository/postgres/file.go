package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (application_id, folder_id, document_type, filename, storage_key, size, content_type, upload_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		file.ApplicationID,
		file.FolderID,
		file.DocumentType,
		file.Filename,
		file.StorageKey,
		file.Size,
		file.ContentType,
		file.UploadStatus,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("application %s or folder: %w", file.ApplicationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by ID, scoped to an application
func (r *PostgresFileRepository) GetByID(ctx context.Context, id, applicationID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, folder_id, document_type, filename, storage_key, size, content_type, upload_status, created_at, updated_at
		FROM %s
		WHERE id = $1 AND application_id = $2
	`, r.tables.Files)

	var file models.File
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, applicationID).Scan(
		&file.ID,
		&file.ApplicationID,
		&file.FolderID,
		&file.DocumentType,
		&file.Filename,
		&file.StorageKey,
		&file.Size,
		&file.ContentType,
		&file.UploadStatus,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// ListByApplication lists all files for an application
func (r *PostgresFileRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, folder_id, document_type, filename, storage_key, size, content_type, upload_status, created_at, updated_at
		FROM %s
		WHERE application_id = $1
		ORDER BY created_at ASC
	`, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// ListByFolder lists files attached to a folder
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID, applicationID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, application_id, folder_id, document_type, filename, storage_key, size, content_type, upload_status, created_at, updated_at
		FROM %s
		WHERE folder_id = $1 AND application_id = $2
		ORDER BY created_at ASC
	`, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list files in folder: %w", err)
	}
	defer rows.Close()

	return scanFiles(rows)
}

// ReassignFolder re-points every file whose folder is fromID to toID
func (r *PostgresFileRepository) ReassignFolder(ctx context.Context, applicationID, fromID, toID string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = $2
		WHERE application_id = $3 AND folder_id = $4
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, toID, time.Now(), applicationID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign files: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// UpdateStatus updates a file's upload status
func (r *PostgresFileRepository) UpdateStatus(ctx context.Context, id, applicationID string, status models.UploadStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET upload_status = $1, updated_at = $2
		WHERE id = $3 AND application_id = $4
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, status, time.Now(), id, applicationID)
	if err != nil {
		return fmt.Errorf("update file status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanFiles(rows pgx.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.ApplicationID,
			&file.FolderID,
			&file.DocumentType,
			&file.Filename,
			&file.StorageKey,
			&file.Size,
			&file.ContentType,
			&file.UploadStatus,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
