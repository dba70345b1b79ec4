package compare

import (
	"context"
	"sort"

	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Options configures a hierarchy comparison
type Options struct {
	Ignore IgnoreFunc
	Logger logging.Logger
}

// CompareHierarchy pairs the entries of two trees by relative path and
// partitions them into A-only, B-only and matching pairs. A pair that
// fails the strategy is reported on both sides.
func CompareHierarchy(ctx context.Context, a, b storage.Backend, strategy Strategy, opts Options) (*models.ComparisonResult, error) {
	logger := logging.OrNull(opts.Logger)
	topts := TraverseOptions{Ignore: opts.Ignore, Logger: logger}

	entriesA, err := Traverse(ctx, a, topts)
	if err != nil {
		return nil, err
	}
	entriesB, err := Traverse(ctx, b, topts)
	if err != nil {
		return nil, err
	}

	byPathB := make(map[string]models.Entry, len(entriesB))
	for _, e := range entriesB {
		byPathB[e.RelativePath] = e
	}

	result := &models.ComparisonResult{
		AOnly: []models.Entry{},
		BOnly: []models.Entry{},
		Both:  []models.EntryPair{},
	}
	seen := make(map[string]struct{}, len(entriesA))

	for _, entryA := range entriesA {
		seen[entryA.RelativePath] = struct{}{}

		entryB, ok := byPathB[entryA.RelativePath]
		if !ok {
			result.AOnly = append(result.AOnly, entryA)
			continue
		}

		cmp, err := strategy.Compare(ctx, a, b, entryA, entryB)
		if err != nil {
			return nil, err
		}

		if cmp.Result == Same {
			result.Both = append(result.Both, models.EntryPair{A: entryA, B: entryB})
			continue
		}

		logger.Debug(ctx, "entries differ", logging.Fields{
			"path":   entryA.RelativePath,
			"reason": cmp.Reason,
		})
		result.AOnly = append(result.AOnly, entryA)
		result.BOnly = append(result.BOnly, entryB)
	}

	for _, entryB := range entriesB {
		if _, ok := seen[entryB.RelativePath]; !ok {
			result.BOnly = append(result.BOnly, entryB)
		}
	}

	sortEntries(result.AOnly)
	sortEntries(result.BOnly)
	sort.SliceStable(result.Both, func(i, j int) bool {
		return result.Both[i].A.RelativePath < result.Both[j].A.RelativePath
	})

	logger.Info(ctx, "hierarchy comparison complete", logging.Fields{
		"strategy": strategy.Name(),
		"a_only":   len(result.AOnly),
		"b_only":   len(result.BOnly),
		"both":     len(result.Both),
	})

	return result, nil
}

// CompareDirectories runs CompareHierarchy over two local directories
func CompareDirectories(ctx context.Context, rootA, rootB string, strategy Strategy, opts Options) (*models.ComparisonResult, error) {
	a, err := storage.NewLocal(rootA)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	b, err := storage.NewLocal(rootB)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return CompareHierarchy(ctx, a, b, strategy, opts)
}

func sortEntries(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
}
