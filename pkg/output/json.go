package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/dircompare/pkg/models"
)

// JSONFormatter formats reports as JSON for automation and scripting
type JSONFormatter struct{}

// JSONReport is the top-level JSON document
type JSONReport struct {
	ID         string                       `json:"id"`
	Mode       string                       `json:"mode"`
	Method     string                       `json:"method,omitempty"`
	RootA      string                       `json:"root_a"`
	RootB      string                       `json:"root_b"`
	Options    JSONOptionsData              `json:"options"`
	StartTime  time.Time                    `json:"start_time"`
	EndTime    time.Time                    `json:"end_time"`
	DurationMs int64                        `json:"duration_ms"`
	Summary    JSONSummaryData              `json:"summary"`
	Hierarchy  *models.ComparisonResult     `json:"hierarchy,omitempty"`
	Flat       *models.FlatComparisonResult `json:"flat,omitempty"`
}

// JSONOptionsData represents the options that shaped the results
type JSONOptionsData struct {
	CaseInsensitive bool   `json:"case_insensitive,omitempty"`
	Verify          bool   `json:"verify,omitempty"`
	FullHash        bool   `json:"full_hash,omitempty"`
	Algorithm       string `json:"algorithm,omitempty"`
	ReadLimit       string `json:"read_limit,omitempty"`
}

// JSONSummaryData represents result counters
type JSONSummaryData struct {
	HasDifferences bool `json:"has_differences"`
	AOnly          *int `json:"a_only,omitempty"`
	BOnly          *int `json:"b_only,omitempty"`
	Both           *int `json:"both,omitempty"`
	Moved          *int `json:"moved,omitempty"`
	Duplicates     *int `json:"duplicates,omitempty"`
	AOnlyGroups    *int `json:"a_only_groups,omitempty"`
	BOnlyGroups    *int `json:"b_only_groups,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report
func (f *JSONFormatter) Format(w io.Writer, report *models.Report) error {
	doc := JSONReport{
		ID:     report.ID,
		Mode:   string(report.Mode),
		Method: string(report.Method),
		RootA:  report.RootA,
		RootB:  report.RootB,
		Options: JSONOptionsData{
			CaseInsensitive: report.CaseInsensitive,
			Verify:          report.Verify,
			FullHash:        report.FullHash,
			Algorithm:       report.Algorithm,
			ReadLimit:       report.ReadLimit,
		},
		StartTime:  report.StartTime,
		EndTime:    report.EndTime,
		DurationMs: report.Duration.Milliseconds(),
		Summary:    JSONSummaryData{HasDifferences: report.HasDifferences()},
		Hierarchy:  report.Hierarchy,
		Flat:       report.Flat,
	}

	err := render(report,
		func(r *models.ComparisonResult) error {
			doc.Summary.AOnly = intPtr(len(r.AOnly))
			doc.Summary.BOnly = intPtr(len(r.BOnly))
			doc.Summary.Both = intPtr(len(r.Both))
			return nil
		},
		func(r *models.FlatComparisonResult) error {
			counts := r.CountByStatus()
			doc.Summary.Moved = intPtr(counts[models.StatusMoved])
			doc.Summary.Duplicates = intPtr(counts[models.StatusDuplicate])
			doc.Summary.AOnlyGroups = intPtr(counts[models.StatusAOnly])
			doc.Summary.BOnlyGroups = intPtr(counts[models.StatusBOnly])
			return nil
		},
	)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func intPtr(n int) *int {
	return &n
}
