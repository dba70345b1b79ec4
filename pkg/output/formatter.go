package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/dircompare/pkg/hashing"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Formatter defines the interface for report rendering
// Implementations include text, Markdown and JSON formatters
type Formatter interface {
	// Format renders a finished report
	Format(w io.Writer, report *models.Report) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter for a format name
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "human":
		return NewTextFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, &models.ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported output format %q (use: text, markdown, json)", format),
		}
	}
}

// render dispatches on the report mode
func render(report *models.Report, hierarchy func(*models.ComparisonResult) error, flat func(*models.FlatComparisonResult) error) error {
	switch {
	case report.Flat != nil:
		return flat(report.Flat)
	case report.Hierarchy != nil:
		return hierarchy(report.Hierarchy)
	default:
		return fmt.Errorf("report %s has no results", report.ID)
	}
}

// shortHash returns the leading 16 characters of a digest
func shortHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

// groupHash renders a group digest, naming groups of unreadable files
func groupHash(g *models.ContentGroup) string {
	if hashing.IsSentinel(g.Hash) {
		return "unreadable"
	}
	return shortHash(g.Hash)
}

// divergentSet returns the paths reported on both sides of a hierarchy
// result, which exist in both trees but did not match
func divergentSet(r *models.ComparisonResult) map[string]bool {
	set := make(map[string]bool)
	for _, p := range r.Divergent() {
		set[p] = true
	}
	return set
}

// entryPath renders an entry path with a trailing slash for directories
func entryPath(e models.Entry) string {
	if e.IsDir() {
		return e.RelativePath + "/"
	}
	return e.RelativePath
}
