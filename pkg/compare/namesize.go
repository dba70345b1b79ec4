package compare

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// NameOnly matches entries by relative path only; size, kind and content
// are ignored
type NameOnly struct {
	caseInsensitive bool
}

// NewNameOnly creates a name-only strategy
func NewNameOnly(caseInsensitive bool) *NameOnly {
	return &NameOnly{caseInsensitive: caseInsensitive}
}

// Compare matches two entries by name
func (s *NameOnly) Compare(ctx context.Context, a, b storage.Backend, entryA, entryB models.Entry) (*Comparison, error) {
	if !pathsMatch(entryA, entryB, s.caseInsensitive) {
		return different(entryA, entryB, "names differ"), nil
	}
	return same(entryA, entryB, "names match"), nil
}

// Name returns the strategy name
func (s *NameOnly) Name() string {
	return string(models.CompareName)
}

// NameAndSize matches entries by relative path and file size
type NameAndSize struct {
	caseInsensitive bool
}

// NewNameAndSize creates a name/size strategy
func NewNameAndSize(caseInsensitive bool) *NameAndSize {
	return &NameAndSize{caseInsensitive: caseInsensitive}
}

// Compare matches two entries by name and size
func (s *NameAndSize) Compare(ctx context.Context, a, b storage.Backend, entryA, entryB models.Entry) (*Comparison, error) {
	if c := matchKinds(entryA, entryB, s.caseInsensitive); c != nil {
		return c, nil
	}

	// Compare file sizes
	if entryA.Size != entryB.Size {
		return different(entryA, entryB, "file sizes differ"), nil
	}

	return same(entryA, entryB, "name and size match"), nil
}

// Name returns the strategy name
func (s *NameAndSize) Name() string {
	return string(models.CompareSize)
}
