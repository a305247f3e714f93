package services

import (
	"context"

	"loandesk/internal/domain/models"
)

// SweepService walks every application violating the single-parent-folder
// invariant and consolidates each one, isolating per-application failures
type SweepService interface {
	// Run finds all applications with more than one top-level folder and
	// consolidates them one at a time, each inside its own transaction.
	// A failure on one application is recorded in the report and does not
	// stop processing of the rest.
	Run(ctx context.Context) (*models.CleanupReport, error)
}
