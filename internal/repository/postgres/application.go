package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
)

// PostgresApplicationRepository implements the ApplicationRepository interface
type PostgresApplicationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(config *RepositoryConfig) repositories.ApplicationRepository {
	return &PostgresApplicationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Applications)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		app.UserID,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, status, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Applications)

	var app models.Application
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&app.ID,
		&app.UserID,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}

	return &app, nil
}

// List retrieves all applications ordered by creation time
func (r *PostgresApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, status, created_at, updated_at
		FROM %s
		ORDER BY created_at ASC
	`, r.tables.Applications)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var app models.Application
		err := rows.Scan(
			&app.ID,
			&app.UserID,
			&app.Status,
			&app.CreatedAt,
			&app.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return apps, nil
}
