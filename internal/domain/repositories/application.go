package repositories

import (
	"context"

	"loandesk/internal/domain/models"
)

// ApplicationRepository defines data access operations for loan applications
type ApplicationRepository interface {
	// Create inserts a new application
	Create(ctx context.Context, app *models.Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id string) (*models.Application, error)

	// List retrieves all applications ordered by creation time
	List(ctx context.Context) ([]models.Application, error)
}
