// Package storage writes exported files (label exports, annotation history
// archives) under a base directory.
package storage

import (
	"context"
	"io"
)

// Storage defines the file operations the exporters need.
type Storage interface {
	// Create opens path for writing, creating parent directories.
	// The caller must close the returned writer.
	Create(ctx context.Context, path string) (io.WriteCloser, error)

	// Save copies content to path and returns the number of bytes written.
	Save(ctx context.Context, path string, content io.Reader) (int64, error)

	// Get opens a previously stored file.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Path resolves path against the storage root.
	Path(path string) string
}
