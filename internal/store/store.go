package store

import (
	"context"
	"errors"
	"time"

	"github.com/saketjha34/FileForge/internal/domain"
)

// Standard errors returned by the store layer. This allows the service layer
// to handle specific database errors without being coupled to the database
// implementation.
var (
	// ErrNotFound covers both "row does not exist" and "row exists but is
	// owned by someone else". The two cases are deliberately conflated so
	// that callers cannot probe for the existence of foreign entities.
	ErrNotFound = errors.New("requested item not found")
	ErrConflict = errors.New("item already exists")
)

// UserStore defines the interface for user data operations.
type UserStore interface {
	// Create inserts a new user. It returns ErrConflict when the username
	// is already taken.
	Create(ctx context.Context, user *domain.User) error

	// FindByUsername retrieves a user by username. It returns ErrNotFound
	// if no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID retrieves a user by their unique ID.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// FolderStore defines the interface for folder data operations. Every lookup
// takes the owner's ID and filters by it in the same query, never
// fetch-then-check.
type FolderStore interface {
	Create(ctx context.Context, folder *domain.Folder) error
	GetByID(ctx context.Context, ownerID, folderID uint) (*domain.Folder, error)
	// ListRoots returns the owner's folders with no parent.
	ListRoots(ctx context.Context, ownerID uint) ([]*domain.Folder, error)
	// ListChildren returns the direct subfolders of a folder.
	ListChildren(ctx context.Context, ownerID, parentID uint) ([]*domain.Folder, error)
	// ListByIDs returns the owner's folders among the given IDs. Foreign or
	// missing IDs are silently absent from the result.
	ListByIDs(ctx context.Context, ownerID uint, ids []uint) ([]*domain.Folder, error)
	// Update persists Name, ParentID and ModifiedAt of an existing folder.
	Update(ctx context.Context, folder *domain.Folder) error
	// Touch sets the folder's ModifiedAt timestamp.
	Touch(ctx context.Context, ownerID, folderID uint, t time.Time) error
	// Delete removes a single folder row. Deleting an already-deleted
	// folder is a no-op, not an error.
	Delete(ctx context.Context, ownerID, folderID uint) error
	// CountChildren returns the number of direct subfolders.
	CountChildren(ctx context.Context, ownerID, parentID uint) (int64, error)
}

// FileStore defines the interface for file metadata operations. File content
// lives in the blob store under the File.ID key; this store only handles rows.
type FileStore interface {
	Create(ctx context.Context, file *domain.File) error
	GetByID(ctx context.Context, ownerID uint, fileID string) (*domain.File, error)
	// ListRoot returns the owner's files that sit outside any folder.
	ListRoot(ctx context.Context, ownerID uint) ([]*domain.File, error)
	// ListInFolder returns the direct files of a folder.
	ListInFolder(ctx context.Context, ownerID, folderID uint) ([]*domain.File, error)
	// ListByIDs returns the owner's files among the given IDs.
	ListByIDs(ctx context.Context, ownerID uint, ids []string) ([]*domain.File, error)
	// Update persists Filename, FolderID and ModifiedAt of an existing file.
	Update(ctx context.Context, file *domain.File) error
	// Delete removes a single file row; missing rows are a no-op.
	Delete(ctx context.Context, ownerID uint, fileID string) error
	// CountInFolder returns the number of direct files in a folder.
	CountInFolder(ctx context.Context, ownerID, folderID uint) (int64, error)
}

// FavoriteStore defines the interface for favorite bookkeeping.
type FavoriteStore interface {
	// Create inserts a favorite. It returns ErrConflict when the same
	// (user, target) pair already exists.
	Create(ctx context.Context, fav *domain.Favorite) error
	// DeleteByFile removes the user's favorite of a file; ErrNotFound when
	// no such favorite exists.
	DeleteByFile(ctx context.Context, userID uint, fileID string) error
	// DeleteByFolder removes the user's favorite of a folder.
	DeleteByFolder(ctx context.Context, userID, folderID uint) error
	// DeleteAllByFile removes every favorite referencing a file, used when
	// the file itself is deleted.
	DeleteAllByFile(ctx context.Context, fileID string) error
	// DeleteAllByFolder removes every favorite referencing a folder.
	DeleteAllByFolder(ctx context.Context, folderID uint) error
	ListByUser(ctx context.Context, userID uint) ([]*domain.Favorite, error)
}

// Stores bundles the four store interfaces so transactional code can reach
// all of them through one handle.
type Stores struct {
	Users     UserStore
	Folders   FolderStore
	Files     FileStore
	Favorites FavoriteStore
}

// Transactor runs a function with a set of stores bound to one database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(tx Stores) error) error
}
