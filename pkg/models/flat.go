package models

// GroupStatus classifies a content group in flat mode
type GroupStatus string

const (
	// StatusMoved is content present exactly once on each side
	StatusMoved GroupStatus = "moved"
	// StatusDuplicate is content present more than once across both trees
	StatusDuplicate GroupStatus = "duplicate"
	// StatusAOnly is content found only in tree A
	StatusAOnly GroupStatus = "a-only"
	// StatusBOnly is content found only in tree B
	StatusBOnly GroupStatus = "b-only"
)

// ContentGroup is the set of files from either tree sharing one content
// hash and size
type ContentGroup struct {
	Hash     string   `json:"hash"`
	Size     int64    `json:"size"`
	FilesInA []string `json:"files_in_a"`
	FilesInB []string `json:"files_in_b"`
}

// FileCount returns the number of member files across both trees
func (g ContentGroup) FileCount() int {
	return len(g.FilesInA) + len(g.FilesInB)
}

// IsDuplicate reports whether the content occurs more than once
func (g ContentGroup) IsDuplicate() bool {
	return g.FileCount() > 1
}

// IsMoved reports whether the content occurs exactly once in each tree,
// which is how a moved, renamed or copied file shows up
func (g ContentGroup) IsMoved() bool {
	return len(g.FilesInA) == 1 && len(g.FilesInB) == 1
}

// Status returns the group classification. A moved group is also a
// duplicate by count; Status reports it as moved.
func (g ContentGroup) Status() GroupStatus {
	switch {
	case g.IsMoved():
		return StatusMoved
	case g.IsDuplicate():
		return StatusDuplicate
	case len(g.FilesInA) > 0:
		return StatusAOnly
	default:
		return StatusBOnly
	}
}

// FlatComparisonResult is the outcome of a flat (content-addressed) comparison
type FlatComparisonResult struct {
	Groups []ContentGroup `json:"groups"`

	// TotalFilesA is the number of files hashed in tree A
	TotalFilesA int `json:"total_files_a"`
	// TotalFilesB is the number of files hashed in tree B
	TotalFilesB int `json:"total_files_b"`
	// UniqueHashes is the number of distinct groups
	UniqueHashes int `json:"unique_hashes"`
	// DuplicateCount is the number of groups holding more than one file
	DuplicateCount int `json:"duplicate_count"`
}

// CountByStatus tallies groups per classification
func (r *FlatComparisonResult) CountByStatus() map[GroupStatus]int {
	counts := make(map[GroupStatus]int)
	for i := range r.Groups {
		counts[r.Groups[i].Status()]++
	}
	return counts
}
