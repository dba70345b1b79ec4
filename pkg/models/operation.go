package models

import (
	"fmt"
	"strings"
)

// ComparisonMode selects how two trees are correlated
type ComparisonMode string

const (
	// ModeHierarchy pairs entries by relative path
	ModeHierarchy ComparisonMode = "hierarchy"
	// ModeFlat groups files by content regardless of path
	ModeFlat ComparisonMode = "flat"
)

// ComparisonMethod defines how same-path entries are matched
type ComparisonMethod string

const (
	// CompareName matches on relative path only
	CompareName ComparisonMethod = "name"
	// CompareSize matches on path and file size
	CompareSize ComparisonMethod = "size"
	// CompareHash matches on path and a full fast hash
	CompareHash ComparisonMethod = "hash"
	// CompareSampled matches on path and the sampled hash
	CompareSampled ComparisonMethod = "sampled"
)

// ParseComparisonMethod resolves a method name, accepting the legacy aliases
func ParseComparisonMethod(s string) (ComparisonMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "filename":
		return CompareName, nil
	case "size":
		return CompareSize, nil
	case "hash", "fxhash", "fasthash", "xxhash":
		return CompareHash, nil
	case "sampled", "sampled-hash":
		return CompareSampled, nil
	default:
		return "", &ValidationError{
			Field:   "method",
			Message: fmt.Sprintf("unknown comparison method %q (valid: name, size, hash, sampled)", s),
		}
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// RootError reports a compared root that cannot be used. It is fatal to
// the comparison.
type RootError struct {
	Root string
	Op   string
	Err  error
}

func (e *RootError) Error() string {
	return "root " + e.Root + ": " + e.Op + ": " + e.Err.Error()
}

func (e *RootError) Unwrap() error {
	return e.Err
}
