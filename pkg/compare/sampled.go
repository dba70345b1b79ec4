package compare

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// NameAndSampledHash performs multi-stage comparison
// Stage 1: sampled hash (size prefix plus seven fixed windows)
// Stage 2: optional full SHA-256 verification when the samples match
type NameAndSampledHash struct {
	caseInsensitive bool
	verify          bool
	verifier        *hashing.Hasher
	logger          logging.Logger
}

// NewNameAndSampledHash creates a sampled-hash strategy.
// With opts.Verify set, sampled matches are confirmed by a full read.
func NewNameAndSampledHash(opts StrategyOptions) *NameAndSampledHash {
	var verifier *hashing.Hasher
	if opts.Verify {
		verifier = hashing.NewHasher(hashing.SHA256, opts.BufferSize)
	}
	return &NameAndSampledHash{
		caseInsensitive: opts.CaseInsensitive,
		verify:          opts.Verify,
		verifier:        verifier,
		logger:          logging.OrNull(opts.Logger),
	}
}

// Compare matches two entries by name and sampled hash
func (s *NameAndSampledHash) Compare(ctx context.Context, a, b storage.Backend, entryA, entryB models.Entry) (*Comparison, error) {
	if c := matchKinds(entryA, entryB, s.caseInsensitive); c != nil {
		return c, nil
	}

	// Stage 1: sampled hashes
	sampledA, sampledB, err := digestPair(ctx, hashing.Sampled, a, b, entryA, entryB, s.logger)
	if err != nil {
		return nil, err
	}
	if sampledA != sampledB {
		return different(entryA, entryB, "sampled hashes differ"), nil
	}

	if !s.verify {
		return same(entryA, entryB, "sampled hashes match"), nil
	}

	// Stage 2: confirm with a full read
	fullA, fullB, err := digestPair(ctx, s.verifier.Sum, a, b, entryA, entryB, s.logger)
	if err != nil {
		return nil, err
	}
	if fullA != fullB {
		return different(entryA, entryB, "sampled hashes match but full hashes differ"), nil
	}

	return same(entryA, entryB, "full hashes match"), nil
}

// Name returns the strategy name
func (s *NameAndSampledHash) Name() string {
	if s.verify {
		return "sampled-verify"
	}
	return string(models.CompareSampled)
}
