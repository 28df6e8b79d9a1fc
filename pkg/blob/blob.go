package blob

import (
	"context"
	"io"
)

// Metadata describes a stored blob.
type Metadata struct {
	Filename    string
	ContentType string
}

// Storage interface for binary object backends.
type Storage interface {
	// Store writes the blob and returns its generated identifier.
	Store(ctx context.Context, filename string, r io.Reader, meta map[string]string) (string, error)
	// Open returns a reader for the blob along with its metadata.
	Open(ctx context.Context, id string) (io.ReadCloser, Metadata, error)
	// Delete removes the blob. Deleting an absent blob returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
