package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/domain/services"
)

type sweepService struct {
	folderRepo    repositories.FolderRepository
	consolidation services.ConsolidationService
	logger        *slog.Logger
}

// NewSweepService creates a new integrity sweep service
func NewSweepService(
	folderRepo repositories.FolderRepository,
	consolidation services.ConsolidationService,
	logger *slog.Logger,
) services.SweepService {
	return &sweepService{
		folderRepo:    folderRepo,
		consolidation: consolidation,
		logger:        logger,
	}
}

// Run finds every application with more than one top-level folder and
// consolidates each. Each application gets its own transaction inside
// Consolidate, so one application's failure is recorded and the sweep
// continues with the rest.
func (s *sweepService) Run(ctx context.Context) (*models.CleanupReport, error) {
	report := &models.CleanupReport{StartedAt: time.Now()}

	ids, err := s.folderRepo.ListApplicationIDsWithDuplicateRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("find duplicate-root applications: %w", err)
	}

	s.logger.Info("integrity sweep started", "applications", len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := models.CleanupEntry{ApplicationID: id}

		result, err := s.consolidation.Consolidate(ctx, id)
		if err != nil {
			entry.Err = err.Error()
			s.logger.Error("sweep failed for application",
				"application_id", id,
				"error", err,
			)
		} else {
			entry.FoldersRemoved = result.FoldersRemoved
			entry.FilesMoved = result.FilesMoved
		}

		report.Entries = append(report.Entries, entry)
	}

	report.FinishedAt = time.Now()

	s.logger.Info("integrity sweep finished",
		"applications", len(report.Entries),
		"failures", report.Failures(),
		"folders_removed", report.TotalFoldersRemoved(),
		"files_moved", report.TotalFilesMoved(),
	)

	return report, nil
}
