package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"loandesk/internal/domain/models"
	"loandesk/internal/domain/repositories"
)

// scriptedTx satisfies pgx.Tx through embedding and answers QueryRow calls
// from a fixed script, so repository logic can be exercised without a
// database connection.
type scriptedTx struct {
	pgx.Tx
	rows  []pgx.Row
	calls int
}

func (s *scriptedTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	if s.calls >= len(s.rows) {
		return errRow{errors.New("unexpected query")}
	}
	row := s.rows[s.calls]
	s.calls++
	return row
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...interface{}) error { return r.err }

type folderRow struct {
	folder models.Folder
}

func (r folderRow) Scan(dest ...interface{}) error {
	*dest[0].(*string) = r.folder.ID
	*dest[1].(*string) = r.folder.ApplicationID
	*dest[2].(**string) = r.folder.ParentID
	*dest[3].(*string) = r.folder.Name
	*dest[4].(*models.FolderType) = r.folder.FolderType
	*dest[5].(*time.Time) = r.folder.CreatedAt
	return nil
}

func newTestFolderRepo() *PostgresFolderRepository {
	return &PostgresFolderRepository{tables: NewTableNames("test_")}
}

func txContext(tx pgx.Tx) context.Context {
	return repositories.SetTx(context.Background(), tx)
}

func TestCreateIfNotExistsReturnsExisting(t *testing.T) {
	parentID := "parent-1"
	existing := models.Folder{
		ID:            "folder-1",
		ApplicationID: "app-1",
		ParentID:      &parentID,
		Name:          "Borrower Documents",
		FolderType:    models.FolderTypeAutoGenerated,
		CreatedAt:     time.Now(),
	}
	tx := &scriptedTx{rows: []pgx.Row{folderRow{existing}}}

	repo := newTestFolderRepo()
	folder, err := repo.CreateIfNotExists(txContext(tx), "app-1", &parentID, "Borrower Documents", models.FolderTypeAutoGenerated)
	require.NoError(t, err)
	require.Equal(t, "folder-1", folder.ID)
	require.Equal(t, 1, tx.calls, "existing folder should short-circuit the insert")
}

func TestCreateIfNotExistsRecoversFromInsertRace(t *testing.T) {
	parentID := "parent-1"
	winner := models.Folder{
		ID:            "folder-winner",
		ApplicationID: "app-1",
		ParentID:      &parentID,
		Name:          "Borrower Documents",
		FolderType:    models.FolderTypeAutoGenerated,
		CreatedAt:     time.Now(),
	}
	// Initial read misses, the insert loses the race to a concurrent caller
	// and hits the sibling-name unique index, the re-read finds the
	// winner's row.
	tx := &scriptedTx{rows: []pgx.Row{
		errRow{pgx.ErrNoRows},
		errRow{&pgconn.PgError{Code: "23505"}},
		folderRow{winner},
	}}

	repo := newTestFolderRepo()
	folder, err := repo.CreateIfNotExists(txContext(tx), "app-1", &parentID, "Borrower Documents", models.FolderTypeAutoGenerated)
	require.NoError(t, err)
	require.Equal(t, "folder-winner", folder.ID)
	require.Equal(t, 3, tx.calls)
}

func TestCreateIfNotExistsPropagatesInsertError(t *testing.T) {
	parentID := "parent-1"
	tx := &scriptedTx{rows: []pgx.Row{
		errRow{pgx.ErrNoRows},
		errRow{errors.New("connection reset")},
	}}

	repo := newTestFolderRepo()
	_, err := repo.CreateIfNotExists(txContext(tx), "app-1", &parentID, "Borrower Documents", models.FolderTypeAutoGenerated)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
}
