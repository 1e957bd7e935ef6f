package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/saketjha34/FileForge/internal/service"
)

// FolderHandler holds the dependencies for folder-related HTTP handlers.
type FolderHandler struct {
	folders  service.FolderService
	archives service.ArchiveService
	logger   *zap.Logger
}

// NewFolderHandler creates a new FolderHandler with its dependencies.
func NewFolderHandler(folders service.FolderService, archives service.ArchiveService, logger *zap.Logger) *FolderHandler {
	return &FolderHandler{
		folders:  folders,
		archives: archives,
		logger:   logger,
	}
}

// --- Request Structs ---

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

type renameFolderRequest struct {
	FolderID uint   `json:"folder_id"`
	NewName  string `json:"new_name"`
}

type moveFolderRequest struct {
	FolderID    uint  `json:"folder_id"`
	NewParentID *uint `json:"new_parent_id"`
}

// --- Handlers ---

// Create handles POST /folders.
func (h *FolderHandler) Create(c echo.Context) error {
	userID, _ := UserID(c)

	var req createFolderRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	folder, err := h.folders.Create(c.Request().Context(), userID, req.Name, req.ParentID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusCreated, folder)
}

// ListRoots handles GET /folders.
func (h *FolderHandler) ListRoots(c echo.Context) error {
	userID, _ := UserID(c)

	folders, err := h.folders.ListRoots(c.Request().Context(), userID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, folders)
}

// Details handles GET /folders/:id/details.
func (h *FolderHandler) Details(c echo.Context) error {
	userID, _ := UserID(c)
	folderID, err := paramUint(c, "id")
	if err != nil {
		apiErr := NewBadRequestError("Invalid folder id")
		return c.JSON(apiErr.Status, apiErr)
	}

	details, err := h.folders.Details(c.Request().Context(), userID, folderID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, details)
}

// Rename handles POST /folders/rename.
func (h *FolderHandler) Rename(c echo.Context) error {
	userID, _ := UserID(c)

	var req renameFolderRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	folder, err := h.folders.Rename(c.Request().Context(), userID, req.FolderID, req.NewName)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, folder)
}

// Move handles POST /folders/move.
func (h *FolderHandler) Move(c echo.Context) error {
	userID, _ := UserID(c)

	var req moveFolderRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	folder, err := h.folders.Move(c.Request().Context(), userID, req.FolderID, req.NewParentID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, folder)
}

// Delete handles DELETE /folders/:id. The whole subtree goes with it.
func (h *FolderHandler) Delete(c echo.Context) error {
	userID, _ := UserID(c)
	folderID, err := paramUint(c, "id")
	if err != nil {
		apiErr := NewBadRequestError("Invalid folder id")
		return c.JSON(apiErr.Status, apiErr)
	}

	if err := h.folders.Delete(c.Request().Context(), userID, folderID); err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Folder deleted successfully"})
}

// Download handles GET /folders/:id/download and streams the subtree as a
// ZIP archive. The ownership guard runs before any header is written; a
// failure mid-stream can only be logged.
func (h *FolderHandler) Download(c echo.Context) error {
	userID, _ := UserID(c)
	folderID, err := paramUint(c, "id")
	if err != nil {
		apiErr := NewBadRequestError("Invalid folder id")
		return c.JSON(apiErr.Status, apiErr)
	}

	details, err := h.folders.Details(c.Request().Context(), userID, folderID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/zip")
	resp.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", details.Name+".zip"))
	resp.WriteHeader(http.StatusOK)

	if err := h.archives.ExportZip(c.Request().Context(), userID, folderID, resp); err != nil {
		h.logger.Error("zip export failed mid-stream",
			zap.Uint("folder_id", folderID),
			zap.Error(err))
	}
	return nil
}

// UploadZip handles POST /upload_zip_file. The archive's directory tree is
// recreated as folders and files; nothing is kept if any part fails.
func (h *FolderHandler) UploadZip(c echo.Context) error {
	userID, _ := UserID(c)

	parentID, err := queryFolderID(c)
	if err != nil {
		apiErr := NewBadRequestError("Invalid folder id")
		return c.JSON(apiErr.Status, apiErr)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apiErr := NewBadRequestError("Missing archive file")
		return c.JSON(apiErr.Status, apiErr)
	}
	src, err := fh.Open()
	if err != nil {
		apiErr := NewBadRequestError("Could not read archive file")
		return c.JSON(apiErr.Status, apiErr)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		apiErr := NewBadRequestError("Could not read archive file")
		return c.JSON(apiErr.Status, apiErr)
	}

	details, err := h.archives.ImportZip(c.Request().Context(), userID, fh.Filename, data, parentID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusCreated, details)
}

// queryFolderID parses an optional folder_id query parameter.
func queryFolderID(c echo.Context) (*uint, error) {
	raw := c.QueryParam("folder_id")
	if raw == "" || raw == "null" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}

// paramUint parses a numeric path parameter.
func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
