package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// FolderStore is the GORM implementation of store.FolderStore. Every lookup
// carries the owner filter in the query itself, so a foreign row behaves
// exactly like a missing one.
type FolderStore struct {
	db *gorm.DB
}

// Create inserts a new folder row.
func (s *FolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	return s.db.WithContext(ctx).Create(folder).Error
}

// GetByID finds a folder by ID, scoped to the owner.
func (s *FolderStore) GetByID(ctx context.Context, ownerID, folderID uint) (*domain.Folder, error) {
	var folder domain.Folder
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		First(&folder).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &folder, nil
}

// ListRoots returns the owner's top-level folders.
func (s *FolderStore) ListRoots(ctx context.Context, ownerID uint) ([]*domain.Folder, error) {
	var folders []*domain.Folder
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND parent_id IS NULL", ownerID).
		Order("id").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// ListChildren returns the direct subfolders of a folder.
func (s *FolderStore) ListChildren(ctx context.Context, ownerID, parentID uint) ([]*domain.Folder, error) {
	var folders []*domain.Folder
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND parent_id = ?", ownerID, parentID).
		Order("id").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// ListByIDs returns the owner's folders among the given IDs.
func (s *FolderStore) ListByIDs(ctx context.Context, ownerID uint, ids []uint) ([]*domain.Folder, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var folders []*domain.Folder
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("id").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// Update persists the mutable fields of an existing folder.
func (s *FolderStore) Update(ctx context.Context, folder *domain.Folder) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Where("id = ? AND owner_id = ?", folder.ID, folder.OwnerID).
		Updates(map[string]interface{}{
			"name":        folder.Name,
			"parent_id":   folder.ParentID,
			"modified_at": folder.ModifiedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Touch sets the folder's ModifiedAt timestamp.
func (s *FolderStore) Touch(ctx context.Context, ownerID, folderID uint, t time.Time) error {
	return s.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Update("modified_at", t).Error
}

// Delete removes a single folder row. A missing row is a no-op so that two
// overlapping subtree deletions do not fail each other.
func (s *FolderStore) Delete(ctx context.Context, ownerID, folderID uint) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", folderID, ownerID).
		Delete(&domain.Folder{}).Error
}

// CountChildren returns the number of direct subfolders.
func (s *FolderStore) CountChildren(ctx context.Context, ownerID, parentID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Folder{}).
		Where("owner_id = ? AND parent_id = ?", ownerID, parentID).
		Count(&count).Error
	return count, err
}
