package service

import (
	"context"
	"fmt"
	"time"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// FavoriteService defines the interface for per-user favorite marks on
// files and folders.
type FavoriteService interface {
	// Add marks exactly one of fileID or folderID as a favorite.
	Add(ctx context.Context, userID uint, fileID *string, folderID *uint) (*domain.Favorite, error)
	// Remove clears the user's favorite on exactly one of the targets.
	Remove(ctx context.Context, userID uint, fileID *string, folderID *uint) error
	// List returns the user's favorited files and folders.
	List(ctx context.Context, userID uint) (*FavoriteListing, error)
}

// favoriteService is the concrete implementation of the FavoriteService
// interface.
type favoriteService struct {
	stores store.Stores
}

// NewFavoriteService creates a new instance of the favorite service.
func NewFavoriteService(stores store.Stores) FavoriteService {
	return &favoriteService{stores: stores}
}

// validateTarget enforces the exactly-one-of rule shared by Add and Remove.
func validateTarget(fileID *string, folderID *uint) error {
	if (fileID == nil) == (folderID == nil) {
		return fmt.Errorf("%w: exactly one of file_id or folder_id must be set", ErrInvalidArgument)
	}
	return nil
}

func (s *favoriteService) Add(ctx context.Context, userID uint, fileID *string, folderID *uint) (*domain.Favorite, error) {
	if err := validateTarget(fileID, folderID); err != nil {
		return nil, err
	}

	// The target must exist and belong to the user before it can be
	// favorited.
	if fileID != nil {
		if _, err := s.stores.Files.GetByID(ctx, userID, *fileID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.stores.Folders.GetByID(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}

	fav := &domain.Favorite{
		UserID:    userID,
		FileID:    fileID,
		FolderID:  folderID,
		CreatedAt: time.Now(),
	}
	if err := s.stores.Favorites.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID uint, fileID *string, folderID *uint) error {
	if err := validateTarget(fileID, folderID); err != nil {
		return err
	}
	if fileID != nil {
		return s.stores.Favorites.DeleteByFile(ctx, userID, *fileID)
	}
	return s.stores.Favorites.DeleteByFolder(ctx, userID, *folderID)
}

// List resolves the user's favorite rows into the underlying files and
// folders. Rows whose target has since been deleted are simply absent from
// the result.
func (s *favoriteService) List(ctx context.Context, userID uint) (*FavoriteListing, error) {
	favs, err := s.stores.Favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fileIDs := make([]string, 0, len(favs))
	folderIDs := make([]uint, 0, len(favs))
	for _, fav := range favs {
		switch {
		case fav.FileID != nil:
			fileIDs = append(fileIDs, *fav.FileID)
		case fav.FolderID != nil:
			folderIDs = append(folderIDs, *fav.FolderID)
		}
	}

	listing := &FavoriteListing{
		Files:   []*domain.File{},
		Folders: []*domain.Folder{},
	}
	if len(fileIDs) > 0 {
		files, err := s.stores.Files.ListByIDs(ctx, userID, fileIDs)
		if err != nil {
			return nil, err
		}
		listing.Files = files
	}
	if len(folderIDs) > 0 {
		folders, err := s.stores.Folders.ListByIDs(ctx, userID, folderIDs)
		if err != nil {
			return nil, err
		}
		if err := fillItemCounts(ctx, s.stores, userID, folders); err != nil {
			return nil, err
		}
		listing.Folders = folders
	}
	return listing, nil
}
