package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store"
)

// ArchiveService defines the interface for subtree export and import.
type ArchiveService interface {
	// ExportZip writes a ZIP archive of the folder's entire subtree to w.
	ExportZip(ctx context.Context, ownerID, folderID uint, w io.Writer) error
	// ImportZip reconstructs the archive's directory tree as folders and
	// files under an optional parent, all-or-nothing.
	ImportZip(ctx context.Context, ownerID uint, archiveName string, data []byte, parentID *uint) (*FolderDetails, error)
}

// archiveService is the concrete implementation of the ArchiveService
// interface. Export and import are the two inverse faces of the subtree
// walker: one flattens the tree into entry paths, the other rebuilds the
// tree from them.
type archiveService struct {
	stores store.Stores
	tx     store.Transactor
	blobs  storage.BlobStore
	logger *zap.Logger
}

// NewArchiveService creates a new instance of the archive service.
func NewArchiveService(stores store.Stores, tx store.Transactor, blobs storage.BlobStore, logger *zap.Logger) ArchiveService {
	return &archiveService{
		stores: stores,
		tx:     tx,
		blobs:  blobs,
		logger: logger,
	}
}

// ExportZip walks the subtree pre-order and streams every reachable file's
// blob into the archive under the chain of folder names from the exported
// root down to the file. A single failed blob fetch is logged and skipped,
// since a partial archive beats a total failure. Name collisions among
// siblings, folders and files alike, are disambiguated so no two entries
// share a path and each subtree keeps its own directory.
func (s *archiveService) ExportZip(ctx context.Context, ownerID, folderID uint, w io.Writer) error {
	root, err := s.stores.Folders.GetByID(ctx, ownerID, folderID)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	used := make(map[string]bool)
	// Disambiguated directory path per visited folder. Pre-order guarantees
	// a folder's parent is resolved before the folder itself.
	prefixes := make(map[uint]string)

	err = walkFolders(ctx, s.stores.Folders, ownerID, root, root.Name, preOrder,
		func(ctx context.Context, folder *domain.Folder, _ string) error {
			var dir string
			if folder.ID == root.ID {
				dir = uniqueEntryPath(used, folder.Name)
			} else {
				dir = uniqueEntryPath(used, prefixes[*folder.ParentID]+"/"+folder.Name)
			}
			prefixes[folder.ID] = dir

			// A directory entry per folder keeps empty folders visible
			// in the extracted tree.
			if _, err := zw.Create(dir + "/"); err != nil {
				return err
			}

			files, err := s.stores.Files.ListInFolder(ctx, ownerID, folder.ID)
			if err != nil {
				return err
			}
			for _, file := range files {
				rc, err := s.blobs.Get(ctx, file.ID)
				if err != nil {
					s.logger.Warn("blob fetch failed during export, skipping entry",
						zap.String("file_id", file.ID),
						zap.String("filename", file.Filename),
						zap.Error(err))
					continue
				}

				entry := uniqueEntryPath(used, dir+"/"+file.Filename)
				ew, err := zw.Create(entry)
				if err != nil {
					rc.Close()
					return err
				}
				if _, err := io.Copy(ew, rc); err != nil {
					rc.Close()
					return fmt.Errorf("failed to write archive entry %s: %w", entry, err)
				}
				rc.Close()
			}
			return nil
		})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// uniqueEntryPath reserves a path in the archive, suffixing the base name
// with a counter when siblings collide.
func uniqueEntryPath(used map[string]bool, p string) string {
	if !used[p] {
		used[p] = true
		return p
	}
	ext := path.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

// ImportZip is the inverse transform: it creates a root folder named after
// the archive, then recreates the archive's directories and files beneath
// it. Every metadata insert runs in one transaction; any blob upload failure
// aborts the whole import so a half-populated tree is never reported as
// success. Blobs uploaded before the failure may be orphaned, the accepted
// side of the two-store consistency policy.
func (s *archiveService) ImportZip(ctx context.Context, ownerID uint, archiveName string, data []byte, parentID *uint) (*FolderDetails, error) {
	if !strings.HasSuffix(strings.ToLower(archiveName), ".zip") {
		return nil, fmt.Errorf("%w: only .zip archives are supported", ErrInvalidArgument)
	}

	if parentID != nil {
		if _, err := s.stores.Folders.GetByID(ctx, ownerID, *parentID); err != nil {
			return nil, err
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed zip archive", ErrInvalidArgument)
	}

	rootName := strings.TrimSuffix(archiveName, path.Ext(archiveName))
	var root *domain.Folder

	err = s.tx.InTransaction(ctx, func(tx store.Stores) error {
		root = &domain.Folder{
			Name:      rootName,
			OwnerID:   ownerID,
			ParentID:  parentID,
			CreatedAt: time.Now(),
		}
		if err := tx.Folders.Create(ctx, root); err != nil {
			return fmt.Errorf("failed to create archive root folder: %w", err)
		}

		imp := &archiveImport{
			service: s,
			tx:      tx,
			ownerID: ownerID,
			dirs:    map[string]*domain.Folder{"": root},
		}

		for _, entry := range zr.File {
			if err := imp.addEntry(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.stores.Folders.Touch(ctx, ownerID, *parentID, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to touch parent folder: %w", err)
		}
	}

	return folderDetails(ctx, s.stores, root)
}

// archiveImport tracks the folder rows created so far during one import,
// keyed by the archive-relative directory path.
type archiveImport struct {
	service *archiveService
	tx      store.Stores
	ownerID uint
	dirs    map[string]*domain.Folder
}

// addEntry processes one archive entry, creating missing parent folders on
// the way.
func (imp *archiveImport) addEntry(ctx context.Context, entry *zip.File) error {
	name, err := cleanEntryName(entry.Name)
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}

	if entry.FileInfo().IsDir() {
		_, err := imp.ensureDir(ctx, name)
		return err
	}

	dir, base := path.Split(name)
	parent, err := imp.ensureDir(ctx, strings.TrimSuffix(dir, "/"))
	if err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	size := entry.FileInfo().Size()
	mimeType := DetectMimeType(base)
	fileID := uuid.NewString()

	if err := imp.service.blobs.Put(ctx, fileID, rc, size, mimeType); err != nil {
		imp.service.logger.Error("blob upload failed during import, aborting",
			zap.String("entry", entry.Name),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	file := &domain.File{
		ID:         fileID,
		Filename:   base,
		MimeType:   mimeType,
		Size:       size,
		OwnerID:    imp.ownerID,
		FolderID:   &parent.ID,
		UploadTime: time.Now(),
	}
	return imp.tx.Files.Create(ctx, file)
}

// ensureDir returns the folder row for an archive-relative directory path,
// creating the chain of missing ancestors level by level.
func (imp *archiveImport) ensureDir(ctx context.Context, dir string) (*domain.Folder, error) {
	if folder, ok := imp.dirs[dir]; ok {
		return folder, nil
	}

	parentPath, name := path.Split(dir)
	parent, err := imp.ensureDir(ctx, strings.TrimSuffix(parentPath, "/"))
	if err != nil {
		return nil, err
	}

	folder := &domain.Folder{
		Name:      name,
		OwnerID:   imp.ownerID,
		ParentID:  &parent.ID,
		CreatedAt: time.Now(),
	}
	if err := imp.tx.Folders.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder %s: %w", dir, err)
	}
	imp.dirs[dir] = folder
	return folder, nil
}

// cleanEntryName normalizes an archive entry path and rejects anything that
// would escape the import root.
func cleanEntryName(name string) (string, error) {
	name = strings.TrimSuffix(name, "/")
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", nil
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: archive entry escapes the archive root: %s", ErrInvalidArgument, name)
	}
	return cleaned, nil
}
