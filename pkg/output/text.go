package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dircompare/pkg/models"
)

// TextFormatter formats reports as plain text
type TextFormatter struct{}

// NewTextFormatter creates a new plain text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the formatter name
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report
func (f *TextFormatter) Format(w io.Writer, report *models.Report) error {
	bw := bufio.NewWriter(w)
	err := render(report,
		func(r *models.ComparisonResult) error { writeHierarchyText(bw, r); return nil },
		func(r *models.FlatComparisonResult) error { writeFlatText(bw, r); return nil },
	)
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeHierarchyText(w io.Writer, r *models.ComparisonResult) {
	section := func(title string, n int) {
		fmt.Fprintf(w, "%s (%d entries):\n", title, n)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	}

	divergent := divergentSet(r)
	entries := func(title string, list []models.Entry) {
		section(title, len(list))
		for _, e := range list {
			if divergent[e.RelativePath] {
				fmt.Fprintf(w, "  %s (differs)\n", entryPath(e))
			} else {
				fmt.Fprintf(w, "  %s\n", entryPath(e))
			}
		}
		fmt.Fprintf(w, "\n")
	}

	entries("A-only", r.AOnly)
	entries("B-only", r.BOnly)

	section("Both", len(r.Both))
	for _, p := range r.Both {
		fmt.Fprintf(w, "  %s == %s\n", p.A.RelativePath, p.B.RelativePath)
	}
}

// textLabel returns the bracketed label for a group
func textLabel(g *models.ContentGroup) string {
	switch g.Status() {
	case models.StatusMoved:
		return "[MATCHED]"
	case models.StatusDuplicate:
		return "[DUPLICATE]"
	case models.StatusAOnly:
		return "[A-ONLY]"
	default:
		return "[B-ONLY]"
	}
}

func writeFlatText(w io.Writer, r *models.FlatComparisonResult) {
	fmt.Fprintf(w, "Flat Mode Comparison Summary\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(w, "Files in directory A: %d\n", r.TotalFilesA)
	fmt.Fprintf(w, "Files in directory B: %d\n", r.TotalFilesB)
	fmt.Fprintf(w, "Unique content hashes: %d\n", r.UniqueHashes)
	fmt.Fprintf(w, "Duplicate content groups: %d\n", r.DuplicateCount)
	fmt.Fprintf(w, "\n")

	for i := range r.Groups {
		g := &r.Groups[i]
		inA, inB := len(g.FilesInA) > 0, len(g.FilesInB) > 0

		fmt.Fprintf(w, "Hash: %s %s (%s, %d files)\n",
			groupHash(g), textLabel(g), humanize.IBytes(uint64(g.Size)), g.FileCount())
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 50))

		for _, p := range g.FilesInA {
			if inB {
				fmt.Fprintf(w, "  [A] %s -> (moved/copied to B)\n", p)
			} else {
				fmt.Fprintf(w, "  [A] %s\n", p)
			}
		}
		for _, p := range g.FilesInB {
			if inA {
				fmt.Fprintf(w, "  [B] %s <- (moved/copied from A)\n", p)
			} else {
				fmt.Fprintf(w, "  [B] %s\n", p)
			}
		}
		fmt.Fprintf(w, "\n")
	}
}
