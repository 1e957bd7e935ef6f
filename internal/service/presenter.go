package service

import (
	"context"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// FolderDetails is the external representation of a folder together with its
// direct files and direct subfolders. Purely derived; building it never
// mutates anything.
type FolderDetails struct {
	domain.Folder
	Files      []*domain.File   `json:"files"`
	Subfolders []*domain.Folder `json:"subfolders"`
}

// FavoriteListing groups a user's favorites by kind.
type FavoriteListing struct {
	Files   []*domain.File   `json:"files"`
	Folders []*domain.Folder `json:"folders"`
}

// itemCount computes a folder's shallow item count: direct files plus direct
// subfolders. Deliberately not a recursive descendant count, and computed per
// request rather than denormalized.
func itemCount(ctx context.Context, st store.Stores, ownerID, folderID uint) (int64, error) {
	files, err := st.Files.CountInFolder(ctx, ownerID, folderID)
	if err != nil {
		return 0, err
	}
	subfolders, err := st.Folders.CountChildren(ctx, ownerID, folderID)
	if err != nil {
		return 0, err
	}
	return files + subfolders, nil
}

// fillItemCounts annotates each folder with its shallow item count.
func fillItemCounts(ctx context.Context, st store.Stores, ownerID uint, folders []*domain.Folder) error {
	for _, f := range folders {
		count, err := itemCount(ctx, st, ownerID, f.ID)
		if err != nil {
			return err
		}
		f.ItemCount = count
	}
	return nil
}

// folderDetails assembles the full external view of one folder. The folder
// itself and every subfolder carry their shallow item counts.
func folderDetails(ctx context.Context, st store.Stores, folder *domain.Folder) (*FolderDetails, error) {
	files, err := st.Files.ListInFolder(ctx, folder.OwnerID, folder.ID)
	if err != nil {
		return nil, err
	}
	subfolders, err := st.Folders.ListChildren(ctx, folder.OwnerID, folder.ID)
	if err != nil {
		return nil, err
	}
	if err := fillItemCounts(ctx, st, folder.OwnerID, subfolders); err != nil {
		return nil, err
	}

	folder.ItemCount = int64(len(files) + len(subfolders))
	if files == nil {
		files = []*domain.File{}
	}
	if subfolders == nil {
		subfolders = []*domain.Folder{}
	}

	return &FolderDetails{
		Folder:     *folder,
		Files:      files,
		Subfolders: subfolders,
	}, nil
}
