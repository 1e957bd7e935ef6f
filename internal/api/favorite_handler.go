package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saketjha34/FileForge/internal/service"
)

// FavoriteHandler holds the dependencies for favorite-related HTTP handlers.
type FavoriteHandler struct {
	favorites service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler with its dependencies.
func NewFavoriteHandler(favorites service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// favoriteTargetRequest names exactly one of a file or a folder.
type favoriteTargetRequest struct {
	FileID   *string `json:"file_id"`
	FolderID *uint   `json:"folder_id"`
}

// Add handles POST /favorites.
func (h *FavoriteHandler) Add(c echo.Context) error {
	userID, _ := UserID(c)

	var req favoriteTargetRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	fav, err := h.favorites.Add(c.Request().Context(), userID, req.FileID, req.FolderID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusCreated, fav)
}

// Remove handles DELETE /favorites.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	userID, _ := UserID(c)

	var req favoriteTargetRequest
	if err := c.Bind(&req); err != nil {
		apiErr := NewBadRequestError("Invalid request body")
		return c.JSON(apiErr.Status, apiErr)
	}

	if err := h.favorites.Remove(c.Request().Context(), userID, req.FileID, req.FolderID); err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "Favorite removed"})
}

// List handles GET /favorites.
func (h *FavoriteHandler) List(c echo.Context) error {
	userID, _ := UserID(c)

	listing, err := h.favorites.List(c.Request().Context(), userID)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}
	return c.JSON(http.StatusOK, listing)
}
