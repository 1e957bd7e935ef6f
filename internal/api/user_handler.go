package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saketjha34/FileForge/internal/service"
	"github.com/saketjha34/FileForge/internal/store"
)

// UserHandler holds the dependencies for user-related HTTP handlers
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler with its dependencies
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// --- Request/Response Structs ---

type registerResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Handlers ---

// Register handles the POST /register endpoint. Credentials arrive as form
// fields. A taken username is a 400, matching what login forms expect.
func (h *UserHandler) Register(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.service.Register(c.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			apiErr := NewBadRequestError("Username already registered")
			return c.JSON(apiErr.Status, apiErr)
		}
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}

	return c.JSON(http.StatusCreated, registerResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// Login handles the POST /login endpoint and returns a bearer token.
func (h *UserHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	// Bad credentials map to 401; a store or token failure falls through
	// to its own status instead of masquerading as a rejected login.
	token, err := h.service.Login(c.Request().Context(), username, password)
	if err != nil {
		apiErr := FromServiceError(err)
		return c.JSON(apiErr.Status, apiErr)
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Health handles the GET /health liveness endpoint.
func (h *UserHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
