package services

import (
	"context"

	"loandesk/internal/domain/models"
)

// ConsolidationService restores the single-parent-folder invariant for one
// application: after a successful call exactly one top-level folder exists
// and every file previously held by a duplicate is reachable under it.
type ConsolidationService interface {
	// ResolveParentFolder returns the application's single top-level folder,
	// creating it if absent and merging duplicates if more than one exists
	ResolveParentFolder(ctx context.Context, applicationID string) (*models.Folder, error)

	// Consolidate is ResolveParentFolder with merge statistics, for callers
	// that report on what was moved
	Consolidate(ctx context.Context, applicationID string) (*ConsolidationResult, error)
}

// ConsolidationResult describes the outcome of one consolidation pass
type ConsolidationResult struct {
	Primary        *models.Folder
	FoldersRemoved int
	FilesMoved     int
}
