package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Billy is a storage backend over a go-billy filesystem, such as memfs
// or osfs
type Billy struct {
	fs   billy.Filesystem
	root string
}

// NewBilly creates a backend rooted at root inside fsys
func NewBilly(fsys billy.Filesystem, root string) (*Billy, error) {
	if root == "" {
		root = "/"
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, &models.RootError{Root: root, Op: "open", Err: fmt.Errorf("billy: stat %q: %w", root, err)}
	}
	if !info.IsDir() {
		return nil, &models.RootError{Root: root, Op: "open", Err: fmt.Errorf("billy: %q is not a directory", root)}
	}

	return &Billy{fs: fsys, root: root}, nil
}

// Root returns the root path inside the filesystem
func (b *Billy) Root() string {
	return b.root
}

// List returns all entries below the root recursively
func (b *Billy) List(ctx context.Context, skip SkipFunc) ([]FileInfo, error) {
	var files []FileInfo

	if err := b.walk(ctx, b.root, "", skip, &files); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})

	return files, nil
}

func (b *Billy) walk(ctx context.Context, dir, rel string, skip SkipFunc, files *[]FileInfo) error {
	infos, err := b.fs.ReadDir(dir)
	if err != nil {
		if rel == "" {
			return &models.RootError{Root: b.root, Op: "read", Err: fmt.Errorf("billy: readdir %q: %w", dir, err)}
		}
		if skip != nil {
			skip(rel, err)
		}
		return nil
	}

	for _, info := range infos {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		childPath := b.fs.Join(dir, info.Name())
		childRel := path.Join(rel, info.Name())
		mode := info.Mode()

		if mode&os.ModeSymlink != 0 {
			continue
		}

		switch {
		case info.IsDir():
			*files = append(*files, FileInfo{
				Path:         childPath,
				ModTime:      info.ModTime(),
				IsDir:        true,
				Permissions:  uint32(mode.Perm()),
				RelativePath: childRel,
			})
			if err := b.walk(ctx, childPath, childRel, skip, files); err != nil {
				return err
			}
		case mode.IsRegular():
			*files = append(*files, FileInfo{
				Path:         childPath,
				Size:         info.Size(),
				ModTime:      info.ModTime(),
				Permissions:  uint32(mode.Perm()),
				RelativePath: childRel,
			})
		}
	}

	return nil
}

// Read opens a file for reading
func (b *Billy) Read(ctx context.Context, path string) (File, error) {
	f, err := b.fs.Open(b.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", path, err)
	}
	return f, nil
}

// Stat returns file metadata
func (b *Billy) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := b.fullPath(path)

	info, err := b.fs.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", path, err)
	}

	fi := FileInfo{
		Path:         fullPath,
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
		Permissions:  uint32(info.Mode().Perm()),
		RelativePath: path,
	}
	if !info.IsDir() {
		fi.Size = info.Size()
	}
	return &fi, nil
}

// Close releases resources (no-op for billy filesystems)
func (b *Billy) Close() error {
	return nil
}

func (b *Billy) fullPath(path string) string {
	return b.fs.Join(b.root, filepath.FromSlash(path))
}
