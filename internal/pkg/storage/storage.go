package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotExist = errors.New("storage: object does not exist")

// Storage stores opaque blobs under relative paths.
type Storage interface {
	// Save writes content to path, creating parent directories as needed.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object at path. Missing objects yield ErrNotExist.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
