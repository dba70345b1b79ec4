package models

// EntryKind is the filesystem type of a traversed entry
type EntryKind string

const (
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
)

// Entry represents a file or directory discovered under a compared root
type Entry struct {
	// RelativePath is the slash-separated path relative to the root.
	// It is the identity of the entry.
	RelativePath string `json:"path"`

	// AbsolutePath is only used for I/O
	AbsolutePath string `json:"-"`

	// Kind is file or directory
	Kind EntryKind `json:"kind"`

	// Size in bytes, populated for files only
	Size int64 `json:"size,omitempty"`
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool {
	return e.Kind == KindFile
}

// EntryPair holds two entries sharing a relative path that were found to match
type EntryPair struct {
	A Entry `json:"a"`
	B Entry `json:"b"`
}
