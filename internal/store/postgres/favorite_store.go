package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// FavoriteStore is the GORM implementation of store.FavoriteStore.
type FavoriteStore struct {
	db *gorm.DB
}

// Create inserts a favorite, mapping duplicates onto ErrConflict. The unique
// indexes on (user_id, file_id) and (user_id, folder_id) back the explicit
// duplicate check for concurrent inserts.
func (s *FavoriteStore) Create(ctx context.Context, fav *domain.Favorite) error {
	var count int64
	q := s.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", fav.UserID)
	if fav.FileID != nil {
		q = q.Where("file_id = ?", *fav.FileID)
	} else {
		q = q.Where("folder_id = ?", *fav.FolderID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return store.ErrConflict
	}

	if err := s.db.WithContext(ctx).Create(fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

// DeleteByFile removes the user's favorite of a file.
func (s *FavoriteStore) DeleteByFile(ctx context.Context, userID uint, fileID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND file_id = ?", userID, fileID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteByFolder removes the user's favorite of a folder.
func (s *FavoriteStore) DeleteByFolder(ctx context.Context, userID, folderID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND folder_id = ?", userID, folderID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAllByFile removes every favorite referencing a file.
func (s *FavoriteStore) DeleteAllByFile(ctx context.Context, fileID string) error {
	return s.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&domain.Favorite{}).Error
}

// DeleteAllByFolder removes every favorite referencing a folder.
func (s *FavoriteStore) DeleteAllByFolder(ctx context.Context, folderID uint) error {
	return s.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Delete(&domain.Favorite{}).Error
}

// ListByUser returns all favorites of a user.
func (s *FavoriteStore) ListByUser(ctx context.Context, userID uint) ([]*domain.Favorite, error) {
	var favs []*domain.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}
