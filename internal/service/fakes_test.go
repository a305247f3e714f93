package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the scoping and ordering rules of
// the postgres implementations so the services under test see the same
// behavior, and expose error hooks for failure-injection tests.

type fakeStore struct {
	mu      sync.Mutex
	apps    map[string]models.Application
	folders map[string]models.Folder
	files   map[string]models.File

	// error hooks, keyed by application id
	reassignFilesErr map[string]error
	deleteFolderErr  map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:             make(map[string]models.Application),
		folders:          make(map[string]models.Folder),
		files:            make(map[string]models.File),
		reassignFilesErr: make(map[string]error),
		deleteFolderErr:  make(map[string]error),
	}
}

func (s *fakeStore) addApplication() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.apps[id] = models.Application{
		ID:        id,
		UserID:    "user-1",
		Status:    models.StatusDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return id
}

func (s *fakeStore) addFolder(appID string, parentID *string, name string, folderType models.FolderType, createdAt time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.folders[id] = models.Folder{
		ID:            id,
		ApplicationID: appID,
		ParentID:      parentID,
		Name:          name,
		FolderType:    folderType,
		CreatedAt:     createdAt,
	}
	return id
}

func (s *fakeStore) addFile(appID string, folderID *string, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.files[id] = models.File{
		ID:            id,
		ApplicationID: appID,
		FolderID:      folderID,
		Filename:      name,
		StorageKey:    "loandesk/" + id,
		UploadStatus:  models.UploadStatusCompleted,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return id
}

func (s *fakeStore) topLevel(appID string) []models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.ApplicationID == appID && f.ParentID == nil {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type fakeApplicationRepo struct{ store *fakeStore }

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	app.ID = uuid.New().String()
	r.store.apps[app.ID] = *app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	app, ok := r.store.apps[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return &app, nil
}

func (r *fakeApplicationRepo) List(_ context.Context) ([]models.Application, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Application
	for _, app := range r.store.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeFolderRepo struct{ store *fakeStore }

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	folder.ID = uuid.New().String()
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByIDOnly(_ context.Context, id string) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, folderID *string, applicationID string) ([]models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.ApplicationID != applicationID {
			continue
		}
		if folderID == nil && f.ParentID == nil {
			out = append(out, f)
		} else if folderID != nil && f.ParentID != nil && *f.ParentID == *folderID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) ListTopLevel(_ context.Context, applicationID string) ([]models.Folder, error) {
	return r.store.topLevel(applicationID), nil
}

func (r *fakeFolderRepo) ListTopLevelForUpdate(_ context.Context, applicationID string) ([]models.Folder, error) {
	return r.store.topLevel(applicationID), nil
}

func (r *fakeFolderRepo) CreateIfNotExists(ctx context.Context, applicationID string, parentID *string, name string, folderType models.FolderType) (*models.Folder, error) {
	r.store.mu.Lock()
	for _, f := range r.store.folders {
		if f.ApplicationID != applicationID || f.Name != name {
			continue
		}
		sameParent := (f.ParentID == nil && parentID == nil) ||
			(f.ParentID != nil && parentID != nil && *f.ParentID == *parentID)
		if sameParent {
			r.store.mu.Unlock()
			return &f, nil
		}
	}
	r.store.mu.Unlock()

	folder := &models.Folder{
		ApplicationID: applicationID,
		ParentID:      parentID,
		Name:          name,
		FolderType:    folderType,
		CreatedAt:     time.Now(),
	}
	if err := r.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (r *fakeFolderRepo) ReassignChildren(_ context.Context, applicationID, fromID, toID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	moved := 0
	for id, f := range r.store.folders {
		if f.ApplicationID == applicationID && f.ParentID != nil && *f.ParentID == fromID {
			f.ParentID = &toID
			r.store.folders[id] = f
			moved++
		}
	}
	return moved, nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, applicationID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.deleteFolderErr[applicationID]; err != nil {
		return err
	}
	f, ok := r.store.folders[id]
	if !ok || f.ApplicationID != applicationID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListApplicationIDsWithDuplicateRoots(_ context.Context) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	counts := make(map[string]int)
	for _, f := range r.store.folders {
		if f.ParentID == nil {
			counts[f.ApplicationID]++
		}
	}
	var ids []string
	for id, n := range counts {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeFileRepo struct{ store *fakeStore }

func (r *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	file.ID = uuid.New().String()
	r.store.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id, applicationID string) (*models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.files[id]
	if !ok || f.ApplicationID != applicationID {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *fakeFileRepo) ListByApplication(_ context.Context, applicationID string) ([]models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.File
	for _, f := range r.store.files {
		if f.ApplicationID == applicationID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFileRepo) ListByFolder(_ context.Context, folderID, applicationID string) ([]models.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.File
	for _, f := range r.store.files {
		if f.ApplicationID == applicationID && f.FolderID != nil && *f.FolderID == folderID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeFileRepo) ReassignFolder(_ context.Context, applicationID, fromID, toID string) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.reassignFilesErr[applicationID]; err != nil {
		return 0, err
	}
	moved := 0
	for id, f := range r.store.files {
		if f.ApplicationID == applicationID && f.FolderID != nil && *f.FolderID == fromID {
			f.FolderID = &toID
			r.store.files[id] = f
			moved++
		}
	}
	return moved, nil
}

func (r *fakeFileRepo) UpdateStatus(_ context.Context, id, applicationID string, status models.UploadStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.files[id]
	if !ok || f.ApplicationID != applicationID {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	f.UploadStatus = status
	r.store.files[id] = f
	return nil
}

// fakeTxManager runs the function directly. Rollback-on-error semantics are
// the transaction manager's own concern and are exercised against a real
// database; these tests verify service behavior around the boundary.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
