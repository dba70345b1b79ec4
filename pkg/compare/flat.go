package compare

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Side identifies one of the two compared trees
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// FlatOptions configures a flat comparison
type FlatOptions struct {
	// UseFullHash hashes whole files instead of sampling them
	UseFullHash bool
	// Algorithm is the full hash; defaults to SHA-256
	Algorithm hashing.Algorithm
	// BufferSize is the read buffer for full hashes
	BufferSize int
	// Workers bounds concurrent hashing; defaults to the CPU count
	Workers int

	Ignore IgnoreFunc
	Logger logging.Logger

	// OnHashed is called after each file is hashed, possibly from
	// several goroutines at once
	OnHashed func(side Side, relativePath string)

	// OnScanned is called once both trees are listed, with the number of
	// files about to be hashed
	OnScanned func(files int)
}

type flatJob struct {
	side    Side
	backend storage.Backend
	entry   models.Entry
}

type groupKey struct {
	hash string
	size int64
}

// CompareFlat groups every file of both trees by content, ignoring paths,
// to surface duplicates and moved files
func CompareFlat(ctx context.Context, a, b storage.Backend, opts FlatOptions) (*models.FlatComparisonResult, error) {
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

	jobs := make([]flatJob, 0, len(entriesA)+len(entriesB))
	result := &models.FlatComparisonResult{Groups: []models.ContentGroup{}}
	for _, e := range entriesA {
		if e.IsFile() {
			jobs = append(jobs, flatJob{side: SideA, backend: a, entry: e})
			result.TotalFilesA++
		}
	}
	for _, e := range entriesB {
		if e.IsFile() {
			jobs = append(jobs, flatJob{side: SideB, backend: b, entry: e})
			result.TotalFilesB++
		}
	}

	if opts.OnScanned != nil {
		opts.OnScanned(len(jobs))
	}

	digests, err := hashJobs(ctx, jobs, opts, logger)
	if err != nil {
		return nil, err
	}

	groups := make(map[groupKey]*models.ContentGroup)
	for i, job := range jobs {
		key := groupKey{hash: digests[i], size: job.entry.Size}
		g, ok := groups[key]
		if !ok {
			g = &models.ContentGroup{Hash: key.hash, Size: key.size, FilesInA: []string{}, FilesInB: []string{}}
			groups[key] = g
		}
		if job.side == SideA {
			g.FilesInA = append(g.FilesInA, job.entry.RelativePath)
		} else {
			g.FilesInB = append(g.FilesInB, job.entry.RelativePath)
		}
	}

	for _, g := range groups {
		sort.Strings(g.FilesInA)
		sort.Strings(g.FilesInB)
		result.Groups = append(result.Groups, *g)
		if g.IsDuplicate() {
			result.DuplicateCount++
		}
	}
	result.UniqueHashes = len(result.Groups)

	sort.Slice(result.Groups, func(i, j int) bool {
		gi, gj := &result.Groups[i], &result.Groups[j]
		if gi.Hash != gj.Hash {
			return gi.Hash < gj.Hash
		}
		return gi.Size < gj.Size
	})

	logger.Info(ctx, "flat comparison complete", logging.Fields{
		"files_a":    result.TotalFilesA,
		"files_b":    result.TotalFilesB,
		"groups":     result.UniqueHashes,
		"duplicates": result.DuplicateCount,
	})

	return result, nil
}

// hashJobs hashes every job on a bounded pool. Digests are stored by job
// index so the outcome does not depend on scheduling.
func hashJobs(ctx context.Context, jobs []flatJob, opts FlatOptions, logger logging.Logger) ([]string, error) {
	var fn digestFunc = hashing.Sampled
	if opts.UseFullHash {
		algorithm := opts.Algorithm
		if algorithm == "" {
			algorithm = hashing.SHA256
		}
		fn = hashing.NewHasher(algorithm, opts.BufferSize).Sum
	}

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	digests := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range jobs {
		i := i
		job := jobs[i]
		g.Go(func() error {
			digest, err := digestOrSentinel(gctx, fn, job.side, job.backend, job.entry, logger)
			if err != nil {
				return err
			}
			digests[i] = digest
			if opts.OnHashed != nil {
				opts.OnHashed(job.side, job.entry.RelativePath)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}

// CompareDirectoriesFlat runs CompareFlat over two local directories
func CompareDirectoriesFlat(ctx context.Context, rootA, rootB string, opts FlatOptions) (*models.FlatComparisonResult, error) {
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

	return CompareFlat(ctx, a, b, opts)
}
