package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file or directory under a root
type FileInfo struct {
	Path         string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	Permissions  uint32
	RelativePath string // slash-separated, relative to the root
}

// File is an open file handle usable for streamed and windowed reads
type File interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// SkipFunc is called for every entry that could not be read during a
// listing. The entry is left out and the listing continues.
type SkipFunc func(relativePath string, err error)

// Backend is a read-only view of one compared directory tree.
// Implementations include the local filesystem and go-billy filesystems.
type Backend interface {
	// Root returns the canonical root of the tree
	Root() string

	// List returns every descendant of the root, excluding the root itself.
	// Symlinks and irregular files are not returned and never followed.
	// Results are sorted by relative path. Only a failure to read the root
	// is returned as an error.
	List(ctx context.Context, skip SkipFunc) ([]FileInfo, error)

	// Read opens a file for reading, by relative path
	Read(ctx context.Context, path string) (File, error)

	// Stat returns file metadata, by relative path
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases any resources held by the backend
	Close() error
}
