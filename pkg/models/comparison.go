package models

// ComparisonResult is the outcome of a hierarchy comparison.
//
// A path present on both sides whose entries do not match is listed in
// both AOnly and BOnly. All lists are sorted by relative path.
type ComparisonResult struct {
	// AOnly holds entries found only in tree A, or divergent from B
	AOnly []Entry `json:"a_only"`

	// BOnly holds entries found only in tree B, or divergent from A
	BOnly []Entry `json:"b_only"`

	// Both holds matching same-path pairs
	Both []EntryPair `json:"both"`
}

// HasDifferences reports whether any entry was found on one side only
func (r *ComparisonResult) HasDifferences() bool {
	return len(r.AOnly) > 0 || len(r.BOnly) > 0
}

// Divergent returns the relative paths reported on both sides, i.e. paths
// that exist in both trees but failed the match strategy
func (r *ComparisonResult) Divergent() []string {
	inB := make(map[string]struct{}, len(r.BOnly))
	for _, e := range r.BOnly {
		inB[e.RelativePath] = struct{}{}
	}

	var paths []string
	for _, e := range r.AOnly {
		if _, ok := inB[e.RelativePath]; ok {
			paths = append(paths, e.RelativePath)
		}
	}
	return paths
}
