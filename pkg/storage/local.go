package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sdejongh/dircompare/internal/platform"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend rooted at the canonical
// form of rootPath. An unusable root yields a *models.RootError.
func NewLocal(rootPath string) (*Local, error) {
	canonical, err := platform.CanonicalRoot(rootPath)
	if err != nil {
		return nil, &models.RootError{Root: rootPath, Op: "open", Err: err}
	}

	return &Local{rootPath: canonical}, nil
}

// Root returns the canonical root path
func (l *Local) Root() string {
	return l.rootPath
}

// List returns all entries below the root recursively
func (l *Local) List(ctx context.Context, skip SkipFunc) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p == l.rootPath {
			if err != nil {
				return &models.RootError{Root: l.rootPath, Op: "read", Err: err}
			}
			return nil
		}

		relPath, relErr := platform.RelativeTo(l.rootPath, p)
		if relErr != nil {
			return relErr
		}

		// Unreadable entry, or a directory whose listing failed
		if err != nil {
			if skip != nil {
				skip(relPath, err)
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if skip != nil {
				skip(relPath, err)
			}
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		files = append(files, toFileInfo(p, relPath, info))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	return files, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (File, error) {
	file, err := os.Open(l.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := l.fullPath(path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	relPath, err := platform.RelativeTo(l.rootPath, fullPath)
	if err != nil {
		return nil, err
	}

	fi := toFileInfo(fullPath, relPath, info)
	return &fi, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func (l *Local) fullPath(path string) string {
	return filepath.Join(l.rootPath, filepath.FromSlash(path))
}

func toFileInfo(path, relPath string, info fs.FileInfo) FileInfo {
	fi := FileInfo{
		Path:         path,
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
		Permissions:  uint32(info.Mode().Perm()),
		RelativePath: relPath,
	}
	if !info.IsDir() {
		fi.Size = info.Size()
	}
	return fi
}
