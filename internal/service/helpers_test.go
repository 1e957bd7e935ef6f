package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store"
	"github.com/saketjha34/FileForge/internal/store/postgres"
)

// testEnv wires the services against an in-memory sqlite database and a fake
// blob store with injectable faults.
type testEnv struct {
	stores    store.Stores
	blobs     *fakeBlobStore
	folders   FolderService
	files     FileService
	archives  ArchiveService
	favorites FavoriteService
}

func newTestEnv(t *testing.T) *testEnv {
	// A unique name per test keeps shared-cache memory databases isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to open in-memory db")
	require.NoError(t, postgres.Migrate(gdb), "failed to migrate schema")
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	db := postgres.New(gdb)
	stores := db.Stores()
	blobs := newFakeBlobStore()
	logger := zap.NewNop()

	return &testEnv{
		stores:    stores,
		blobs:     blobs,
		folders:   NewFolderService(stores, db, blobs, logger),
		files:     NewFileService(stores, db, blobs, logger),
		archives:  NewArchiveService(stores, db, blobs, logger),
		favorites: NewFavoriteService(stores),
	}
}

// createUser inserts a user row directly and returns its ID.
func createUser(t *testing.T, env *testEnv, username string) uint {
	user := &domain.User{
		Username:     username,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, env.stores.Users.Create(context.Background(), user))
	return user.ID
}

func createFolder(t *testing.T, env *testEnv, ownerID uint, name string, parentID *uint) *domain.Folder {
	folder, err := env.folders.Create(context.Background(), ownerID, name, parentID)
	require.NoError(t, err)
	return folder
}

func uploadFile(t *testing.T, env *testEnv, ownerID uint, name, content string, folderID *uint) *domain.File {
	file, err := env.files.Upload(context.Background(), ownerID, name, "",
		int64(len(content)), strings.NewReader(content), folderID)
	require.NoError(t, err)
	return file
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

// fakeBlobStore is an in-memory BlobStore with per-key and global fault
// injection.
type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	getErr    map[string]error
	deleteErr map[string]error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:   make(map[string][]byte),
		getErr:    make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[key]; err != nil {
		return nil, err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
