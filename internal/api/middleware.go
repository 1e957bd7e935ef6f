package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/saketjha34/FileForge/internal/platform/crypto"
)

const (
	// userIDKey is the key for storing the user's ID in the request context.
	userIDKey = "userID"
	// usernameKey is the key for storing the username in the request context.
	usernameKey = "username"
)

// AuthMiddleware is a struct that holds the dependencies for our auth middleware.
type AuthMiddleware struct {
	tokenSvc crypto.TokenManager
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(tokenSvc crypto.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// RequireAuth is the main authentication middleware. It checks for a valid
// bearer token in the Authorization header. If found, it adds the user's ID
// and username to the request context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			apiErr := NewUnauthorizedError("Missing authentication token")
			return c.JSON(apiErr.Status, apiErr)
		}

		claims, err := m.tokenSvc.Verify(token)
		if err != nil {
			apiErr := NewUnauthorizedError("Invalid authentication token")
			return c.JSON(apiErr.Status, apiErr)
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		return next(c)
	}
}

// UserID is a helper function to safely retrieve the user ID from the context.
func UserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(userIDKey).(uint)
	return userID, ok
}
