package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// FileStore is the GORM implementation of store.FileStore.
type FileStore struct {
	db *gorm.DB
}

// Create inserts a new file row.
func (s *FileStore) Create(ctx context.Context, file *domain.File) error {
	return s.db.WithContext(ctx).Create(file).Error
}

// GetByID finds a file by ID, scoped to the owner.
func (s *FileStore) GetByID(ctx context.Context, ownerID uint, fileID string) (*domain.File, error) {
	var file domain.File
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		First(&file).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &file, nil
}

// ListRoot returns the owner's files outside any folder.
func (s *FileStore) ListRoot(ctx context.Context, ownerID uint) ([]*domain.File, error) {
	var files []*domain.File
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND folder_id IS NULL", ownerID).
		Order("id").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ListInFolder returns the direct files of a folder.
func (s *FileStore) ListInFolder(ctx context.Context, ownerID, folderID uint) ([]*domain.File, error) {
	var files []*domain.File
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND folder_id = ?", ownerID, folderID).
		Order("id").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ListByIDs returns the owner's files among the given IDs.
func (s *FileStore) ListByIDs(ctx context.Context, ownerID uint, ids []string) ([]*domain.File, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []*domain.File
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Update persists the mutable fields of an existing file.
func (s *FileStore) Update(ctx context.Context, file *domain.File) error {
	res := s.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("id = ? AND owner_id = ?", file.ID, file.OwnerID).
		Updates(map[string]interface{}{
			"filename":    file.Filename,
			"folder_id":   file.FolderID,
			"modified_at": file.ModifiedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a single file row; missing rows are a no-op.
func (s *FileStore) Delete(ctx context.Context, ownerID uint, fileID string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", fileID, ownerID).
		Delete(&domain.File{}).Error
}

// CountInFolder returns the number of direct files in a folder.
func (s *FileStore) CountInFolder(ctx context.Context, ownerID, folderID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("owner_id = ? AND folder_id = ?", ownerID, folderID).
		Count(&count).Error
	return count, err
}
