package storage

import "time"

// Run is one persisted coverage analysis run.
type Run struct {
	ID        int64
	CreatedAt time.Time
	Source    string // template path or URL the analysis was run against

	Dim1          string
	Dim2          string
	Total         int
	Covered       int
	Gaps          int
	NotApplicable int
	CoveragePct   float64
}

// Gap is one persisted gap entry belonging to a run.
type Gap struct {
	RunID     int64
	Dim1Value string
	Dim2Value string
	Severity  string
	Message   string
}

// Stat aggregates runs per dimension pair.
type Stat struct {
	Dim1      string
	Dim2      string
	RunCount  int
	LatestPct float64
}
