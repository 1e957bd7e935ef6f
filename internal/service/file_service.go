package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store"
)

// FileService defines the interface for single-file business logic.
type FileService interface {
	Upload(ctx context.Context, ownerID uint, filename, mimeType string, size int64, content io.Reader, folderID *uint) (*domain.File, error)
	Get(ctx context.Context, ownerID uint, fileID string) (*domain.File, error)
	ListRoot(ctx context.Context, ownerID uint) ([]*domain.File, error)
	Download(ctx context.Context, ownerID uint, fileID string) (io.ReadCloser, *domain.File, error)
	Rename(ctx context.Context, ownerID uint, fileID, newName string) (*domain.File, error)
	Delete(ctx context.Context, ownerID uint, fileID string) error
}

// fileService is the concrete implementation of the FileService interface.
type fileService struct {
	stores store.Stores
	tx     store.Transactor
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewFileService creates a new instance of the file service.
func NewFileService(stores store.Stores, tx store.Transactor, blobs storage.BlobStore, logger *zap.Logger) FileService {
	return &fileService{
		stores: stores,
		tx:     tx,
		blobs:  blobs,
		logger: logger,
	}
}

// DetectMimeType infers a content type from a filename extension, falling
// back to application/octet-stream.
func DetectMimeType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Upload stores the file's bytes in the blob store under a fresh UUID and
// records the metadata row. The UUID doubles as the blob object key. A failed
// blob upload aborts the operation before any metadata is written.
func (s *fileService) Upload(ctx context.Context, ownerID uint, filename, mimeType string, size int64, content io.Reader, folderID *uint) (*domain.File, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename cannot be empty", ErrInvalidArgument)
	}
	if mimeType == "" {
		mimeType = DetectMimeType(filename)
	}

	if folderID != nil {
		if _, err := s.stores.Folders.GetByID(ctx, ownerID, *folderID); err != nil {
			return nil, err
		}
	}

	fileID := uuid.NewString()
	if err := s.blobs.Put(ctx, fileID, content, size, mimeType); err != nil {
		s.logger.Error("blob upload failed", zap.String("file_id", fileID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	file := &domain.File{
		ID:         fileID,
		Filename:   filename,
		MimeType:   mimeType,
		Size:       size,
		OwnerID:    ownerID,
		FolderID:   folderID,
		UploadTime: time.Now(),
	}
	if err := s.stores.Files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to record file metadata: %w", err)
	}

	if folderID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *folderID, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to touch folder: %w", err)
		}
	}

	return file, nil
}

// Get returns a file's metadata, scoped to the owner.
func (s *fileService) Get(ctx context.Context, ownerID uint, fileID string) (*domain.File, error) {
	return s.stores.Files.GetByID(ctx, ownerID, fileID)
}

// ListRoot returns the caller's files that sit outside any folder.
func (s *fileService) ListRoot(ctx context.Context, ownerID uint) ([]*domain.File, error) {
	files, err := s.stores.Files.ListRoot(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if files == nil {
		files = []*domain.File{}
	}
	return files, nil
}

// Download opens a stream over the file's content after the ownership guard
// passes. A blob fetch failure on a single download is not tolerated.
func (s *fileService) Download(ctx context.Context, ownerID uint, fileID string) (io.ReadCloser, *domain.File, error) {
	file, err := s.stores.Files.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Get(ctx, file.ID)
	if err != nil {
		s.logger.Error("blob fetch failed", zap.String("file_id", file.ID), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return rc, file, nil
}

// Rename changes a file's name and touches the containing folder's
// ModifiedAt. The cascade stops there; the folder's own parent is not
// touched.
func (s *fileService) Rename(ctx context.Context, ownerID uint, fileID, newName string) (*domain.File, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: filename cannot be empty", ErrInvalidArgument)
	}

	file, err := s.stores.Files.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file.Filename = newName
	file.ModifiedAt = &now
	if err := s.stores.Files.Update(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to rename file: %w", err)
	}

	if file.FolderID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *file.FolderID, now); err != nil {
			return nil, fmt.Errorf("failed to touch folder: %w", err)
		}
	}

	return file, nil
}

// Delete removes a single file: first the blob, then the metadata row and
// any favorite references in one transaction. Unlike recursive folder
// deletion, a failed blob delete here aborts the operation. The caller asked
// for exactly this file to be gone.
func (s *fileService) Delete(ctx context.Context, ownerID uint, fileID string) error {
	file, err := s.stores.Files.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, file.ID); err != nil {
		s.logger.Error("blob delete failed", zap.String("file_id", file.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return s.tx.InTransaction(ctx, func(tx store.Stores) error {
		if err := tx.Favorites.DeleteAllByFile(ctx, file.ID); err != nil {
			return err
		}
		return tx.Files.Delete(ctx, ownerID, file.ID)
	})
}
