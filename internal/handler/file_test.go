package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"loandesk/internal/domain"
	"loandesk/internal/domain/models"
	"loandesk/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubResolver struct {
	folderID string
	err      error
}

func (s *stubResolver) ResolveFolderForUpload(context.Context, services.UploadParams) (string, error) {
	return s.folderID, s.err
}

type stubFileRepo struct {
	created *models.File
}

func (s *stubFileRepo) Create(_ context.Context, file *models.File) error {
	file.ID = uuid.New().String()
	s.created = file
	return nil
}

func (s *stubFileRepo) GetByID(context.Context, string, string) (*models.File, error) {
	return nil, domain.ErrNotFound
}

func (s *stubFileRepo) ListByApplication(context.Context, string) ([]models.File, error) {
	return nil, nil
}

func (s *stubFileRepo) ListByFolder(context.Context, string, string) ([]models.File, error) {
	return nil, nil
}

func (s *stubFileRepo) ReassignFolder(context.Context, string, string, string) (int, error) {
	return 0, nil
}

func (s *stubFileRepo) UpdateStatus(context.Context, string, string, models.UploadStatus) error {
	return nil
}

func registerFile(t *testing.T, resolver services.UploadResolver, repo *stubFileRepo, appID, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewFileHandler(repo, resolver, testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/applications/{id}/files", h.RegisterFile)

	req := httptest.NewRequest(http.MethodPost, "/api/applications/"+appID+"/files", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterFileCreated(t *testing.T) {
	appID := uuid.New().String()
	folderID := uuid.New().String()
	repo := &stubFileRepo{}

	rec := registerFile(t, &stubResolver{folderID: folderID}, repo, appID,
		`{"filename":"w2.pdf","storage_key":"loandesk/w2.pdf","size":1024,"content_type":"application/pdf","document_type":"borrower"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, repo.created)
	require.Equal(t, folderID, *repo.created.FolderID)
	require.Equal(t, models.UploadStatusUploading, repo.created.UploadStatus)
}

func TestRegisterFileMalformedIDNamesField(t *testing.T) {
	rec := registerFile(t, &stubResolver{}, &stubFileRepo{}, "not-a-uuid",
		`{"filename":"w2.pdf","storage_key":"k"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "application_id", problem["field"])
}

func TestRegisterFileFolderMismatchIs400(t *testing.T) {
	appID := uuid.New().String()
	resolver := &stubResolver{err: &domain.FolderMismatchError{
		FolderID:      uuid.New().String(),
		ApplicationID: appID,
	}}

	rec := registerFile(t, resolver, &stubFileRepo{}, appID,
		`{"filename":"w2.pdf","storage_key":"k","folder_id":"`+uuid.New().String()+`"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "does not belong to application")
}

func TestRegisterFileConsolidationFailureIs503(t *testing.T) {
	appID := uuid.New().String()
	resolver := &stubResolver{err: &domain.ConsolidationFailedError{
		ApplicationID: appID,
		Cause:         domain.ErrConflict,
	}}

	rec := registerFile(t, resolver, &stubFileRepo{}, appID,
		`{"filename":"w2.pdf","storage_key":"k"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, true, problem["retryable"])
}

func TestRegisterFileMissingApplicationIs404(t *testing.T) {
	appID := uuid.New().String()
	resolver := &stubResolver{err: &domain.NotFoundError{Message: "application " + appID + " not found"}}

	rec := registerFile(t, resolver, &stubFileRepo{}, appID,
		`{"filename":"w2.pdf","storage_key":"k"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
