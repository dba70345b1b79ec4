package models

import (
	"time"
)

// Report represents one comparison run, ready for rendering
type Report struct {
	// Run details
	ID     string
	Mode   ComparisonMode
	Method ComparisonMethod
	RootA  string
	RootB  string

	// Options that change how results read
	CaseInsensitive bool
	Verify          bool
	FullHash        bool
	Algorithm       string
	ReadLimit       string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Exactly one of these is set, depending on Mode
	Hierarchy *ComparisonResult
	Flat      *FlatComparisonResult
}

// Finish stamps the end time and duration
func (r *Report) Finish(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime)
}

// HasDifferences reports whether the run found anything not shared by both trees
func (r *Report) HasDifferences() bool {
	switch {
	case r.Hierarchy != nil:
		return r.Hierarchy.HasDifferences()
	case r.Flat != nil:
		for i := range r.Flat.Groups {
			g := &r.Flat.Groups[i]
			if len(g.FilesInA) == 0 || len(g.FilesInB) == 0 {
				return true
			}
		}
	}
	return false
}

// ExitStatus maps a finished run to a process status
type ExitStatus int

const (
	// ExitOK is a completed run, or one with differences when they are not fatal
	ExitOK ExitStatus = 0
	// ExitError is a run that failed
	ExitError ExitStatus = 1
	// ExitDifferences is a completed run with differences when requested to fail on them
	ExitDifferences ExitStatus = 2
)

// ExitCode returns the process exit code for the report
func (r *Report) ExitCode(failOnDiff bool) int {
	if failOnDiff && r.HasDifferences() {
		return int(ExitDifferences)
	}
	return int(ExitOK)
}
