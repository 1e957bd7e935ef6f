package service

import (
	"context"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/store"
)

// traversalOrder selects when the visit callback fires relative to a
// folder's subfolders.
type traversalOrder int

const (
	// preOrder visits a folder before descending into it. Archive export
	// uses this so parent directories precede their contents.
	preOrder traversalOrder = iota
	// postOrder visits a folder after its entire subtree. Deletion uses
	// this so children are gone before their parent row is removed.
	postOrder
)

// folderVisit is invoked once per folder in a subtree. path is the
// slash-joined chain of folder names from the walk's root down to (and
// including) the visited folder.
type folderVisit func(ctx context.Context, folder *domain.Folder, path string) error

// walkFolders traverses a folder's descendant tree depth-first, invoking
// visit per folder in the chosen order. Every step lists children scoped to
// ownerID, so a maliciously re-parented or foreign node is simply never
// seen. Ownership is re-asserted at each level rather than inherited.
//
// The traversal is sequential; a visit error aborts the remainder of the
// walk. Whatever the visitor already committed stays committed, which for
// deletion leaves a smaller but self-consistent tree.
func walkFolders(ctx context.Context, folders store.FolderStore, ownerID uint,
	root *domain.Folder, path string, order traversalOrder, visit folderVisit) error {

	if order == preOrder {
		if err := visit(ctx, root, path); err != nil {
			return err
		}
	}

	children, err := folders.ListChildren(ctx, ownerID, root.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := walkFolders(ctx, folders, ownerID, child, path+"/"+child.Name, order, visit); err != nil {
			return err
		}
	}

	if order == postOrder {
		return visit(ctx, root, path)
	}
	return nil
}
