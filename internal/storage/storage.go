// Package storage abstracts the object store holding file content. Objects
// are addressed by an opaque key, always the File entity's ID, never the
// user-visible filename.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no blob exists under the requested key.
var ErrObjectNotFound = errors.New("object not found in storage")

// BlobStore is the interface the tree engine needs from object storage. The
// store has no transactional semantics; consistency with the metadata store
// is handled by compensating policies in the service layer.
type BlobStore interface {
	// Put stores size bytes from r under the given key, overwriting any
	// existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get opens a stream over the object's content. The caller must close it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
