package compare

import (
	"context"
	"fmt"

	"github.com/sdejongh/dircompare/internal/platform"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Result represents the outcome of matching two same-path entries
type Result string

const (
	// Same indicates the entries match under the strategy
	Same Result = "same"
	// Different indicates the entries diverge
	Different Result = "different"
)

// Comparison holds the result of matching two entries
type Comparison struct {
	PathA  string
	PathB  string
	Result Result
	Reason string
}

// Strategy decides whether two entries sharing a relative path match.
// The returned error is reserved for cancellation; unreadable files are
// reported as Different.
type Strategy interface {
	// Compare matches entryA from tree a against entryB from tree b
	Compare(ctx context.Context, a, b storage.Backend, entryA, entryB models.Entry) (*Comparison, error)

	// Name returns the name of the matching method
	Name() string
}

// IgnoreFunc reports whether a relative path is excluded from comparison
type IgnoreFunc func(relativePath string, isDir bool) bool

// StrategyOptions configures the strategies built by NewStrategy
type StrategyOptions struct {
	// CaseInsensitive lower-cases relative paths before comparing them
	CaseInsensitive bool
	// Verify confirms sampled-hash matches with a full SHA-256 hash
	Verify bool
	// BufferSize is the read buffer for full hashes
	BufferSize int
	// Logger receives warnings about unreadable files
	Logger logging.Logger
}

// NewStrategy creates the strategy for a comparison method
func NewStrategy(method models.ComparisonMethod, opts StrategyOptions) (Strategy, error) {
	switch method {
	case models.CompareName:
		return NewNameOnly(opts.CaseInsensitive), nil
	case models.CompareSize:
		return NewNameAndSize(opts.CaseInsensitive), nil
	case models.CompareHash:
		return NewNameAndFastHash(opts), nil
	case models.CompareSampled:
		return NewNameAndSampledHash(opts), nil
	default:
		return nil, fmt.Errorf("unsupported comparison method: %s (use: name, size, hash, sampled)", method)
	}
}

func pathsMatch(a, b models.Entry, caseInsensitive bool) bool {
	return platform.FoldCase(a.RelativePath, caseInsensitive) == platform.FoldCase(b.RelativePath, caseInsensitive)
}

func same(a, b models.Entry, reason string) *Comparison {
	return &Comparison{PathA: a.RelativePath, PathB: b.RelativePath, Result: Same, Reason: reason}
}

func different(a, b models.Entry, reason string) *Comparison {
	return &Comparison{PathA: a.RelativePath, PathB: b.RelativePath, Result: Different, Reason: reason}
}

// matchKinds handles the cases every content strategy shares: differing
// names, two directories, and a file facing a directory. It returns nil
// when both entries are files and content must be checked.
func matchKinds(a, b models.Entry, caseInsensitive bool) *Comparison {
	if !pathsMatch(a, b, caseInsensitive) {
		return different(a, b, "names differ")
	}
	if a.IsDir() && b.IsDir() {
		return same(a, b, "both are directories")
	}
	if a.Kind != b.Kind {
		return different(a, b, "entry kinds differ")
	}
	return nil
}
