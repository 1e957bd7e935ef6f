package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

func newTestDB(t *testing.T) *DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(gdb)
}

func seedFolder(t *testing.T, st store.Stores, ownerID uint, name string, parentID *uint) *domain.Folder {
	folder := &domain.Folder{
		Name:      name,
		OwnerID:   ownerID,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	require.NoError(t, st.Folders.Create(context.Background(), folder))
	return folder
}

func TestFolderOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()
	ctx := context.Background()

	folder := seedFolder(t, st, 1, "mine", nil)

	got, err := st.Folders.GetByID(ctx, 1, folder.ID)
	require.NoError(t, err)
	require.Equal(t, "mine", got.Name)

	// The same row under a different owner behaves like a missing row.
	_, err = st.Folders.GetByID(ctx, 2, folder.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Folders.Delete(ctx, 2, folder.ID))
	_, err = st.Folders.GetByID(ctx, 1, folder.ID)
	require.NoError(t, err, "foreign delete must not remove the row")
}

func TestFolderUpdateMissingRow(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()

	err := st.Folders.Update(context.Background(), &domain.Folder{ID: 12345, OwnerID: 1, Name: "ghost"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFolderDeleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()
	ctx := context.Background()

	folder := seedFolder(t, st, 1, "twice", nil)
	require.NoError(t, st.Folders.Delete(ctx, 1, folder.ID))
	require.NoError(t, st.Folders.Delete(ctx, 1, folder.ID))
}

func TestFileListByIDsSkipsForeignRows(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()
	ctx := context.Background()

	mine := &domain.File{ID: uuid.NewString(), Filename: "mine.txt", OwnerID: 1, UploadTime: time.Now()}
	theirs := &domain.File{ID: uuid.NewString(), Filename: "theirs.txt", OwnerID: 2, UploadTime: time.Now()}
	require.NoError(t, st.Files.Create(ctx, mine))
	require.NoError(t, st.Files.Create(ctx, theirs))

	files, err := st.Files.ListByIDs(ctx, 1, []string{mine.ID, theirs.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, mine.ID, files[0].ID)
}

func TestUserCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()
	ctx := context.Background()

	require.NoError(t, st.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"}))
	err := st.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "y"})
	require.ErrorIs(t, err, store.ErrConflict)
}

func TestFavoriteCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	st := db.Stores()
	ctx := context.Background()

	folderID := uint(7)
	require.NoError(t, st.Favorites.Create(ctx, &domain.Favorite{UserID: 1, FolderID: &folderID}))
	err := st.Favorites.Create(ctx, &domain.Favorite{UserID: 1, FolderID: &folderID})
	require.ErrorIs(t, err, store.ErrConflict)

	// A different user may favorite the same target.
	require.NoError(t, st.Favorites.Create(ctx, &domain.Favorite{UserID: 2, FolderID: &folderID}))
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.InTransaction(ctx, func(tx store.Stores) error {
		seedFolder(t, tx, 1, "doomed", nil)
		return fmt.Errorf("force rollback")
	})
	require.Error(t, err)

	roots, err := db.Stores().Folders.ListRoots(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, roots)
}

func TestInTransactionCommits(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.InTransaction(ctx, func(tx store.Stores) error {
		seedFolder(t, tx, 1, "kept", nil)
		return nil
	})
	require.NoError(t, err)

	roots, err := db.Stores().Folders.ListRoots(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roots, 1)
}
