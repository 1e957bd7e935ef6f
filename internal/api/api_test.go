package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/platform/crypto"
	"github.com/saketjha34/FileForge/internal/service"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store/postgres"
)

// memBlobStore is a map-backed BlobStore for handler tests.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// newTestServer wires the full HTTP stack against sqlite and an in-memory
// blob store.
func newTestServer(t *testing.T) *echo.Echo {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	db := postgres.New(gdb)
	stores := db.Stores()
	blobs := newMemBlobStore()
	logger := zap.NewNop()

	passMgr := crypto.NewBcryptManager(bcrypt.MinCost)
	tokenMgr := crypto.NewJWTManager("test-secret", time.Minute, "test")

	userService := service.NewUserService(stores.Users, passMgr, tokenMgr)
	folderService := service.NewFolderService(stores, db, blobs, logger)
	fileService := service.NewFileService(stores, db, blobs, logger)
	archiveService := service.NewArchiveService(stores, db, blobs, logger)
	favoriteService := service.NewFavoriteService(stores)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Users:     NewUserHandler(userService),
		Folders:   NewFolderHandler(folderService, archiveService, logger),
		Files:     NewFileHandler(fileService),
		Favorites: NewFavoriteHandler(favoriteService),
	}, NewAuthMiddleware(tokenMgr))
	return e
}

func doForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, e *echo.Echo, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a user through the API and returns a bearer token.
func registerAndLogin(t *testing.T, e *echo.Echo, username string) string {
	form := url.Values{"username": {username}, "password": {"pass123"}}
	rec := doForm(e, "/register", form)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doForm(e, "/login", form)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e := newTestServer(t)
	form := url.Values{"username": {"alice"}, "password": {"pass123"}}

	require.Equal(t, http.StatusCreated, doForm(e, "/register", form).Code)
	require.Equal(t, http.StatusBadRequest, doForm(e, "/register", form).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newTestServer(t)

	doForm(e, "/register", url.Values{"username": {"alice"}, "password": {"right"}})
	rec := doForm(e, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/folders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/folders", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFolderLifecycle(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e, "alice")

	rec := doJSON(e, http.MethodPost, "/folders", token, map[string]any{"name": "docs"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var folder struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))

	rec = doMultipart(t, e, fmt.Sprintf("/upload_files?folder_id=%d", folder.ID), token, "a.txt", []byte("hello"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var file struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/folders/%d/details", folder.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details struct {
		ItemCount int64 `json:"item_count"`
		Files     []struct {
			Filename string `json:"filename"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.EqualValues(t, 1, details.ItemCount)
	require.Len(t, details.Files, 1)
	require.Equal(t, "a.txt", details.Files[0].Filename)

	rec = doJSON(e, http.MethodGet, "/myfiles/download/"+file.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/folders/%d", folder.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/folders/%d/details", folder.ID), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForeignFolderIsNotFound(t *testing.T) {
	e := newTestServer(t)
	aliceToken := registerAndLogin(t, e, "alice")
	bobToken := registerAndLogin(t, e, "bob")

	rec := doJSON(e, http.MethodPost, "/folders", aliceToken, map[string]any{"name": "private"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var folder struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))

	// Foreign and missing folders produce the same response.
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/folders/%d/details", folder.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/folders/999999/details", bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestZipImportAndExport(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e, "alice")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("docs/readme.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("imported"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	rec := doMultipart(t, e, "/upload_zip_file", token, "bundle.zip", buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code)

	var imported struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	require.Equal(t, "bundle", imported.Name)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/folders/%d/download", imported.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/zip", rec.Header().Get(echo.HeaderContentType))

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.Contains(t, names, "bundle/docs/readme.txt")
}

func TestFavoritesEndpoints(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e, "alice")

	rec := doJSON(e, http.MethodPost, "/folders", token, map[string]any{"name": "starred"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var folder struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))

	rec = doJSON(e, http.MethodPost, "/favorites", token, map[string]any{"folder_id": folder.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Neither target is a 400, not a 500.
	rec = doJSON(e, http.MethodPost, "/favorites", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Folders []struct {
			Name string `json:"name"`
		} `json:"folders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Folders, 1)
	require.Equal(t, "starred", listing.Folders[0].Name)

	rec = doJSON(e, http.MethodDelete, "/favorites", token, map[string]any{"folder_id": folder.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/favorites", token, map[string]any{"folder_id": folder.ID})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
