package api

import (
	"github.com/labstack/echo/v4"
)

// Handlers bundles every HTTP handler the router needs.
type Handlers struct {
	Users     *UserHandler
	Folders   *FolderHandler
	Files     *FileHandler
	Favorites *FavoriteHandler
}

// RegisterRoutes sets up all the application's routes on the given Echo
// instance. Everything past register/login/health requires a bearer token.
func RegisterRoutes(e *echo.Echo, h Handlers, auth *AuthMiddleware) {
	// Public routes
	e.POST("/register", h.Users.Register)
	e.POST("/login", h.Users.Login)
	e.GET("/health", h.Users.Health)

	// Folder routes
	folders := e.Group("/folders", auth.RequireAuth)
	folders.POST("", h.Folders.Create)
	folders.GET("", h.Folders.ListRoots)
	folders.GET("/:id/details", h.Folders.Details)
	folders.POST("/rename", h.Folders.Rename)
	folders.POST("/move", h.Folders.Move)
	folders.DELETE("/:id", h.Folders.Delete)
	folders.GET("/:id/download", h.Folders.Download)

	// File routes
	files := e.Group("/myfiles", auth.RequireAuth)
	files.GET("", h.Files.ListRoot)
	files.GET("/:id", h.Files.Get)
	files.GET("/download/:id", h.Files.Download)
	files.POST("/rename", h.Files.Rename)
	files.DELETE("/delete/:id", h.Files.Delete)

	e.POST("/upload_files", h.Files.Upload, auth.RequireAuth)
	e.POST("/upload_zip_file", h.Folders.UploadZip, auth.RequireAuth)

	// Favorite routes
	favorites := e.Group("/favorites", auth.RequireAuth)
	favorites.POST("", h.Favorites.Add)
	favorites.DELETE("", h.Favorites.Remove)
	favorites.GET("", h.Favorites.List)
}
