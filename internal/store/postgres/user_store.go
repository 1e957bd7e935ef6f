package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// UserStore is the GORM implementation of store.UserStore.
type UserStore struct {
	db *gorm.DB
}

// Create inserts a new user, mapping a taken username onto ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ?", user.Username).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return store.ErrConflict
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

// FindByUsername retrieves a user by username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}
