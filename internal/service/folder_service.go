package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store"
)

// FolderService defines the interface for folder-tree business logic.
type FolderService interface {
	Create(ctx context.Context, ownerID uint, name string, parentID *uint) (*domain.Folder, error)
	ListRoots(ctx context.Context, ownerID uint) ([]*domain.Folder, error)
	Details(ctx context.Context, ownerID, folderID uint) (*FolderDetails, error)
	Rename(ctx context.Context, ownerID, folderID uint, newName string) (*domain.Folder, error)
	Move(ctx context.Context, ownerID, folderID uint, newParentID *uint) (*domain.Folder, error)
	Delete(ctx context.Context, ownerID, folderID uint) error
}

// folderService is the concrete implementation of the FolderService
// interface. It owns the semantics of the folder hierarchy: ownership-scoped
// lookups, the recursive subtree deletion, and the modified-at cascade.
type folderService struct {
	stores store.Stores
	tx     store.Transactor
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewFolderService creates a new instance of the folder service.
func NewFolderService(stores store.Stores, tx store.Transactor, blobs storage.BlobStore, logger *zap.Logger) FolderService {
	return &folderService{
		stores: stores,
		tx:     tx,
		blobs:  blobs,
		logger: logger,
	}
}

// Create makes a new folder, optionally nested inside a parent the caller
// owns. Creating a child touches the parent's ModifiedAt.
func (s *folderService) Create(ctx context.Context, ownerID uint, name string, parentID *uint) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", ErrInvalidArgument)
	}

	if parentID != nil {
		// Ownership guard: the lookup is scoped to the caller, so a
		// foreign parent is indistinguishable from a missing one.
		if _, err := s.stores.Folders.GetByID(ctx, ownerID, *parentID); err != nil {
			return nil, err
		}
	}

	folder := &domain.Folder{
		Name:      name,
		OwnerID:   ownerID,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	if err := s.stores.Folders.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	if parentID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *parentID, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to touch parent folder: %w", err)
		}
	}

	return folder, nil
}

// ListRoots returns the caller's top-level folders, each annotated with its
// shallow item count.
func (s *folderService) ListRoots(ctx context.Context, ownerID uint) ([]*domain.Folder, error) {
	folders, err := s.stores.Folders.ListRoots(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	if err := fillItemCounts(ctx, s.stores, ownerID, folders); err != nil {
		return nil, err
	}
	if folders == nil {
		folders = []*domain.Folder{}
	}
	return folders, nil
}

// Details returns one folder with its direct files and direct subfolders.
func (s *folderService) Details(ctx context.Context, ownerID, folderID uint) (*FolderDetails, error) {
	folder, err := s.stores.Folders.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	return folderDetails(ctx, s.stores, folder)
}

// Rename changes a folder's name, touching its own and its parent's
// ModifiedAt. The cascade stops at the direct parent.
func (s *folderService) Rename(ctx context.Context, ownerID, folderID uint, newName string) (*domain.Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", ErrInvalidArgument)
	}

	folder, err := s.stores.Folders.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder.Name = newName
	folder.ModifiedAt = &now
	if err := s.stores.Folders.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to rename folder: %w", err)
	}

	if folder.ParentID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *folder.ParentID, now); err != nil {
			return nil, fmt.Errorf("failed to touch parent folder: %w", err)
		}
	}

	return folder, nil
}

// Move re-parents a folder. The new parent must be owned by the caller and
// must not sit inside the moved folder's own subtree. The parent chain is
// checked procedurally because the storage layer alone cannot keep the
// forest acyclic.
func (s *folderService) Move(ctx context.Context, ownerID, folderID uint, newParentID *uint) (*domain.Folder, error) {
	folder, err := s.stores.Folders.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return nil, fmt.Errorf("%w: folder cannot be its own parent", ErrInvalidArgument)
		}
		parent, err := s.stores.Folders.GetByID(ctx, ownerID, *newParentID)
		if err != nil {
			return nil, err
		}
		inSubtree, err := s.isDescendant(ctx, ownerID, folderID, parent)
		if err != nil {
			return nil, err
		}
		if inSubtree {
			return nil, fmt.Errorf("%w: cannot move a folder into its own subtree", ErrInvalidArgument)
		}
	}

	now := time.Now()
	oldParent := folder.ParentID
	folder.ParentID = newParentID
	folder.ModifiedAt = &now
	if err := s.stores.Folders.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to move folder: %w", err)
	}

	// Both ends of the move count as modifications of their parents.
	if oldParent != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *oldParent, now); err != nil {
			return nil, fmt.Errorf("failed to touch old parent: %w", err)
		}
	}
	if newParentID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *newParentID, now); err != nil {
			return nil, fmt.Errorf("failed to touch new parent: %w", err)
		}
	}

	return folder, nil
}

// isDescendant reports whether candidate sits in folderID's subtree,
// walking candidate's parent chain upwards. Each step is owner-scoped.
func (s *folderService) isDescendant(ctx context.Context, ownerID, folderID uint, candidate *domain.Folder) (bool, error) {
	for candidate.ParentID != nil {
		if *candidate.ParentID == folderID {
			return true, nil
		}
		parent, err := s.stores.Folders.GetByID(ctx, ownerID, *candidate.ParentID)
		if err != nil {
			return false, err
		}
		candidate = parent
	}
	return false, nil
}

// Delete removes a folder and everything beneath it. The traversal runs
// post-order so every child is gone before its parent's row. Per folder, the
// blobs of its direct files are deleted first (a failed blob delete is
// logged and tolerated, leaving at worst an orphaned blob), and then the
// file rows, favorite references and the folder row are removed in one
// transaction. After the subtree is gone the deleted root's parent gets its
// ModifiedAt touched.
func (s *folderService) Delete(ctx context.Context, ownerID, folderID uint) error {
	root, err := s.stores.Folders.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	parentID := root.ParentID

	err = walkFolders(ctx, s.stores.Folders, ownerID, root, root.Name, postOrder,
		func(ctx context.Context, folder *domain.Folder, _ string) error {
			return s.deleteFolderNode(ctx, ownerID, folder)
		})
	if err != nil {
		return err
	}

	if parentID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *parentID, time.Now()); err != nil {
			return fmt.Errorf("failed to touch parent folder: %w", err)
		}
	}
	return nil
}

// deleteFolderNode removes one folder's direct files and its own row. By the
// time it runs, post-order traversal has already emptied every subfolder.
func (s *folderService) deleteFolderNode(ctx context.Context, ownerID uint, folder *domain.Folder) error {
	files, err := s.stores.Files.ListInFolder(ctx, ownerID, folder.ID)
	if err != nil {
		return err
	}

	// Blob deletes happen outside the metadata transaction: the blob store
	// has no transactional semantics, and a failed delete must not keep a
	// half-deleted folder alive. The metadata rows go regardless.
	for _, file := range files {
		if err := s.blobs.Delete(ctx, file.ID); err != nil {
			s.logger.Warn("blob delete failed during folder deletion, leaving orphaned blob",
				zap.String("file_id", file.ID),
				zap.Uint("folder_id", folder.ID),
				zap.Error(err))
		}
	}

	return s.tx.InTransaction(ctx, func(tx store.Stores) error {
		for _, file := range files {
			if err := tx.Favorites.DeleteAllByFile(ctx, file.ID); err != nil {
				return err
			}
			if err := tx.Files.Delete(ctx, ownerID, file.ID); err != nil {
				return err
			}
		}
		if err := tx.Favorites.DeleteAllByFolder(ctx, folder.ID); err != nil {
			return err
		}
		return tx.Folders.Delete(ctx, ownerID, folder.ID)
	})
}
