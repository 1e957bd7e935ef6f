package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saketjha34/FileForge/internal/service"
)

// FileHandler holds the dependencies for file-related HTTP handlers.
type FileHandler struct {
	files service.FileService
}

// NewFileHandler creates a new FileHandler with its dependencies.
func NewFileHandler(files service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// --- Request Structs ---

type renameFileRequest struct {
	FileID  string `json:"file_id"`
	NewName string `json:"new_name"`
}

// --- Handlers ---

// Upload handles POST /upload_files. The blob is stored before any metadata
// row exists, so a storage failure leaves nothing behind.
func (h *FileHandler) Upload(c echo.Context) error {
	userID, _ := UserID(c)

	folderID, err := queryFolderID(c)
	if err != nil {
		apiErr := NewBadRequestError("Invalid folder id")
		return c.JSON(apiErr.Status, apiErr)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apiErr := NewBadRequestError("Missing file")
		return c.JSON(apiErr.Status, apiErr)
	}
	src, err := fh.Open()
	if err != nil {
		apiErr := NewBadRequestError("Could not read file")
		return c.JSON(apiErr.Status, apiErr)
	}
	defer src.Close()

	mimeType := fh.Header.Get(echo.HeaderContentType)
	if mimeType == "" {
		mimeType = service.DetectMimeType(fh.Filename)
	}

	file, err := h.files.Upload(c.Request().Context(), userID, fh.Filename, mimeType, fh.Size, src, folderID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusCreated, file)
}

// ListRoot handles GET /myfiles and returns the caller's files that sit
// outside any folder.
func (h *FileHandler) ListRoot(c echo.Context) error {
	userID, _ := UserID(c)

	files, err := h.files.ListRoot(c.Request().Context(), userID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, files)
}

// Get handles GET /myfiles/:id.
func (h *FileHandler) Get(c echo.Context) error {
	userID, _ := UserID(c)

	file, err := h.files.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, file)
}

// Download handles GET /myfiles/download/:id and streams the blob with the
// stored content type.
func (h *FileHandler) Download(c echo.Context) error {
	userID, _ := UserID(c)

	rc, file, err := h.files.Download(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Stream(http.StatusOK, file.MimeType, rc)
}

// Rename handles POST /myfiles/rename.
func (h *FileHandler) Rename(c echo.Context) error {
	userID, _ := UserID(c)

	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	file, err := h.files.Rename(c.Request().Context(), userID, req.FileID, req.NewName)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, file)
}

// Delete handles DELETE /myfiles/delete/:id.
func (h *FileHandler) Delete(c echo.Context) error {
	userID, _ := UserID(c)

	if err := h.files.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "File deleted successfully"})
}
