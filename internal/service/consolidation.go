package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
	"loandesk/internal/domain/services"
)

type consolidationService struct {
	appRepo    repositories.ApplicationRepository
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewConsolidationService creates a new folder consolidation service
func NewConsolidationService(
	appRepo repositories.ApplicationRepository,
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ConsolidationService {
	return &consolidationService{
		appRepo:    appRepo,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ResolveParentFolder returns the application's single top-level folder,
// creating it if absent and merging duplicates if more than one exists
func (s *consolidationService) ResolveParentFolder(ctx context.Context, applicationID string) (*models.Folder, error) {
	result, err := s.Consolidate(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return result.Primary, nil
}

// Consolidate ensures exactly one top-level folder exists for the
// application. Duplicates are merged oldest-wins: the earliest-created folder
// keeps its identity so previously issued folder ids stay valid. Children and
// files of each duplicate are re-pointed at the primary before the duplicate
// row is deleted; no file is ever deleted.
//
// The merge runs in a single transaction per application. The top-level rows
// are locked (SELECT ... FOR UPDATE) and re-read before deciding primary and
// duplicates, so two concurrent consolidations of the same application
// serialize instead of both merging against a stale snapshot.
func (s *consolidationService) Consolidate(ctx context.Context, applicationID string) (*services.ConsolidationResult, error) {
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("application %s not found", applicationID)}
		}
		return nil, err
	}

	// Fast path: a single existing parent folder needs no transaction
	roots, err := s.folderRepo.ListTopLevel(ctx, applicationID)
	if err != nil {
		return nil, &domain.ConsolidationFailedError{ApplicationID: applicationID, Cause: err}
	}
	if len(roots) == 1 {
		return &services.ConsolidationResult{Primary: &roots[0]}, nil
	}

	result := &services.ConsolidationResult{}
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Re-read under lock: the unlocked read above may be stale
		locked, err := s.folderRepo.ListTopLevelForUpdate(txCtx, applicationID)
		if err != nil {
			return err
		}

		switch len(locked) {
		case 0:
			folder, err := s.folderRepo.CreateIfNotExists(txCtx, applicationID, nil,
				models.DefaultParentFolderName, models.FolderTypeSystem)
			if err != nil {
				return fmt.Errorf("create parent folder: %w", err)
			}
			result.Primary = folder
			return nil

		case 1:
			// A concurrent consolidation already merged; nothing to do
			result.Primary = &locked[0]
			return nil
		}

		primary := locked[0]
		for _, dup := range locked[1:] {
			if _, err := s.folderRepo.ReassignChildren(txCtx, applicationID, dup.ID, primary.ID); err != nil {
				return fmt.Errorf("merge folder %s: %w", dup.ID, err)
			}

			moved, err := s.fileRepo.ReassignFolder(txCtx, applicationID, dup.ID, primary.ID)
			if err != nil {
				return fmt.Errorf("merge folder %s: %w", dup.ID, err)
			}

			if err := s.folderRepo.Delete(txCtx, dup.ID, applicationID); err != nil {
				return fmt.Errorf("delete duplicate folder %s: %w", dup.ID, err)
			}

			result.FoldersRemoved++
			result.FilesMoved += moved
		}
		result.Primary = &primary
		return nil
	})
	if err != nil {
		return nil, &domain.ConsolidationFailedError{ApplicationID: applicationID, Cause: err}
	}

	if result.FoldersRemoved > 0 {
		s.logger.Info("parent folders consolidated",
			"application_id", applicationID,
			"primary_id", result.Primary.ID,
			"folders_removed", result.FoldersRemoved,
			"files_moved", result.FilesMoved,
		)
	}

	return result, nil
}
