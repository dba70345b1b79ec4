package compare

import (
	"context"
	"sync"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// digestFunc computes a digest of the file at a relative path
type digestFunc func(ctx context.Context, backend storage.Backend, path string) (string, error)

// digestOrSentinel runs fn and substitutes a sentinel digest when the file
// cannot be read. The sentinel is keyed by side and relative path so it is
// stable across runs and distinct for every file. Only cancellation is
// returned as an error.
func digestOrSentinel(ctx context.Context, fn digestFunc, side Side, backend storage.Backend, entry models.Entry, logger logging.Logger) (string, error) {
	digest, err := fn(ctx, backend, entry.RelativePath)
	if err == nil {
		return digest, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	logger.Warn(ctx, "unreadable file, treating as unmatched", logging.Fields{
		"side":  string(side),
		"path":  entry.AbsolutePath,
		"error": err.Error(),
	})
	return hashing.Sentinel(string(side) + ":" + entry.RelativePath), nil
}

// digestPair computes both digests in parallel
func digestPair(ctx context.Context, fn digestFunc, a, b storage.Backend, entryA, entryB models.Entry, logger logging.Logger) (string, string, error) {
	var digestA, digestB string
	var errA, errB error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		digestA, errA = digestOrSentinel(ctx, fn, SideA, a, entryA, logger)
	}()
	go func() {
		defer wg.Done()
		digestB, errB = digestOrSentinel(ctx, fn, SideB, b, entryB, logger)
	}()
	wg.Wait()

	if errA != nil {
		return "", "", errA
	}
	if errB != nil {
		return "", "", errB
	}
	return digestA, digestB, nil
}

// NameAndFastHash matches files by relative path and a streamed xxhash64
// of their whole content
type NameAndFastHash struct {
	caseInsensitive bool
	hasher          *hashing.Hasher
	logger          logging.Logger
}

// NewNameAndFastHash creates a fast-hash strategy
func NewNameAndFastHash(opts StrategyOptions) *NameAndFastHash {
	return &NameAndFastHash{
		caseInsensitive: opts.CaseInsensitive,
		hasher:          hashing.NewHasher(hashing.XXHash, opts.BufferSize),
		logger:          logging.OrNull(opts.Logger),
	}
}

// Compare matches two entries by name and full-content hash
func (s *NameAndFastHash) Compare(ctx context.Context, a, b storage.Backend, entryA, entryB models.Entry) (*Comparison, error) {
	if c := matchKinds(entryA, entryB, s.caseInsensitive); c != nil {
		return c, nil
	}

	// If sizes differ, contents differ
	if entryA.Size != entryB.Size {
		return different(entryA, entryB, "file sizes differ"), nil
	}

	hashA, hashB, err := digestPair(ctx, s.hasher.Sum, a, b, entryA, entryB, s.logger)
	if err != nil {
		return nil, err
	}

	if hashA != hashB {
		return different(entryA, entryB, "file hashes differ"), nil
	}

	return same(entryA, entryB, "file hashes match"), nil
}

// Name returns the strategy name
func (s *NameAndFastHash) Name() string {
	return string(models.CompareHash)
}
