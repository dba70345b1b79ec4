package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/dircompare/pkg/models"
)

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`)

// MarkdownFormatter formats reports as Markdown documents
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the formatter name
func (f *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format renders the report
func (f *MarkdownFormatter) Format(w io.Writer, report *models.Report) error {
	bw := bufio.NewWriter(w)
	err := render(report,
		func(r *models.ComparisonResult) error { writeHierarchyMarkdown(bw, report, r); return nil },
		func(r *models.FlatComparisonResult) error { writeFlatMarkdown(bw, report, r); return nil },
	)
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeMarkdownRun(w io.Writer, report *models.Report) {
	fmt.Fprintf(w, "- **Directory A:** `%s`\n", markdownEscaper.Replace(report.RootA))
	fmt.Fprintf(w, "- **Directory B:** `%s`\n", markdownEscaper.Replace(report.RootB))
	if report.Method != "" {
		fmt.Fprintf(w, "- **Method:** %s\n", report.Method)
	}
	if !report.StartTime.IsZero() {
		fmt.Fprintf(w, "- **Started:** %s\n", report.StartTime.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "\n")
}

func writeMarkdownEntries(w io.Writer, title string, entries []models.Entry, divergent map[string]bool) {
	fmt.Fprintf(w, "## %s\n\n", title)
	if len(entries) == 0 {
		fmt.Fprintf(w, "*No entries*\n\n")
		return
	}
	for _, e := range entries {
		if divergent[e.RelativePath] {
			fmt.Fprintf(w, "- `%s` *(differs)*\n", markdownEscaper.Replace(entryPath(e)))
		} else {
			fmt.Fprintf(w, "- `%s`\n", markdownEscaper.Replace(entryPath(e)))
		}
	}
	fmt.Fprintf(w, "\n")
}

func writeHierarchyMarkdown(w io.Writer, report *models.Report, r *models.ComparisonResult) {
	fmt.Fprintf(w, "# Directory Comparison Report\n\n")
	writeMarkdownRun(w, report)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Category | Count |\n|---------|-------|\n")
	fmt.Fprintf(w, "| A-only | %d |\n", len(r.AOnly))
	fmt.Fprintf(w, "| B-only | %d |\n", len(r.BOnly))
	fmt.Fprintf(w, "| Both | %d |\n\n", len(r.Both))

	divergent := divergentSet(r)
	writeMarkdownEntries(w, "A-only", r.AOnly, divergent)
	writeMarkdownEntries(w, "B-only", r.BOnly, divergent)

	fmt.Fprintf(w, "## Both\n\n")
	if len(r.Both) == 0 {
		fmt.Fprintf(w, "*No matching entries*\n\n")
		return
	}
	for _, p := range r.Both {
		fmt.Fprintf(w, "- `%s` == `%s`\n",
			markdownEscaper.Replace(p.A.RelativePath), markdownEscaper.Replace(p.B.RelativePath))
	}
	fmt.Fprintf(w, "\n")
}

// markdownLabel returns the group label used in Markdown headings
func markdownLabel(g *models.ContentGroup) string {
	switch g.Status() {
	case models.StatusMoved:
		return "MOVED"
	case models.StatusDuplicate:
		return "DUPLICATE"
	case models.StatusAOnly:
		return "A-ONLY"
	default:
		return "B-ONLY"
	}
}

func writeFlatMarkdown(w io.Writer, report *models.Report, r *models.FlatComparisonResult) {
	fmt.Fprintf(w, "# Flat Mode Comparison Report\n\n")
	writeMarkdownRun(w, report)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(w, "| Files in directory A | %d |\n", r.TotalFilesA)
	fmt.Fprintf(w, "| Files in directory B | %d |\n", r.TotalFilesB)
	fmt.Fprintf(w, "| Unique content hashes | %d |\n", r.UniqueHashes)
	fmt.Fprintf(w, "| Duplicate groups | %d |\n\n", r.DuplicateCount)

	fmt.Fprintf(w, "## Content Groups\n\n")
	for i := range r.Groups {
		g := &r.Groups[i]
		inA, inB := len(g.FilesInA) > 0, len(g.FilesInB) > 0

		fmt.Fprintf(w, "### Hash: `%s...` (%s - %s, %d files)\n\n",
			groupHash(g), markdownLabel(g), humanize.IBytes(uint64(g.Size)), g.FileCount())

		if inA {
			fmt.Fprintf(w, "**Directory A:**\n\n")
			for _, p := range g.FilesInA {
				if inB {
					fmt.Fprintf(w, "- `%s` *(moved/copied to B)*\n", markdownEscaper.Replace(p))
				} else {
					fmt.Fprintf(w, "- `%s`\n", markdownEscaper.Replace(p))
				}
			}
			fmt.Fprintf(w, "\n")
		}

		if inB {
			fmt.Fprintf(w, "**Directory B:**\n\n")
			for _, p := range g.FilesInB {
				if inA {
					fmt.Fprintf(w, "- `%s` *(moved/copied from A)*\n", markdownEscaper.Replace(p))
				} else {
					fmt.Fprintf(w, "- `%s`\n", markdownEscaper.Replace(p))
				}
			}
			fmt.Fprintf(w, "\n")
		}
	}
}
