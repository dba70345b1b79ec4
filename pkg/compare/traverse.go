package compare

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// TraverseOptions configures a traversal
type TraverseOptions struct {
	// Ignore excludes entries by relative path. Nil keeps everything.
	Ignore IgnoreFunc
	// Logger receives warnings about skipped entries. Nil discards them.
	Logger logging.Logger
}

// Traverse lists every entry below the backend root, sorted by relative
// path. Unreadable entries are logged and skipped; only an unusable root
// is returned as an error.
func Traverse(ctx context.Context, backend storage.Backend, opts TraverseOptions) ([]models.Entry, error) {
	logger := logging.OrNull(opts.Logger)

	infos, err := backend.List(ctx, func(rel string, err error) {
		logger.Warn(ctx, "skipping unreadable entry", logging.Fields{
			"root":  backend.Root(),
			"path":  rel,
			"error": err.Error(),
		})
	})
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(infos))
	for _, info := range infos {
		if opts.Ignore != nil && opts.Ignore(info.RelativePath, info.IsDir) {
			continue
		}
		entries = append(entries, toEntry(info))
	}

	logger.Debug(ctx, "traversal complete", logging.Fields{
		"root":    backend.Root(),
		"entries": len(entries),
		"ignored": len(infos) - len(entries),
	})

	return entries, nil
}

// TraverseDir traverses a local directory
func TraverseDir(ctx context.Context, root string, opts TraverseOptions) ([]models.Entry, error) {
	backend, err := storage.NewLocal(root)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	return Traverse(ctx, backend, opts)
}

func toEntry(info storage.FileInfo) models.Entry {
	entry := models.Entry{
		RelativePath: info.RelativePath,
		AbsolutePath: info.Path,
		Kind:         models.KindFile,
	}
	if info.IsDir {
		entry.Kind = models.KindDirectory
	} else {
		entry.Size = info.Size
	}
	return entry
}
