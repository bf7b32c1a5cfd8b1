package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalCommits  int              `json:"total_commits"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the gitreport_runs table.
type RunRecord struct {
	RunID        int64
	RepoName     string
	Branch       string
	RangeLabel   string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int64
	TotalCommits int
	TotalAuthors int
	TotalFiles   int
	Insertions   int
	Deletions    int
	OutputDir    string
	ConfigParams *string
}

// AuthorTotalRecord represents a row from the gitreport_author_totals table.
type AuthorTotalRecord struct {
	RunID       int64
	AuthorName  string
	AuthorEmail string
	Commits     int
	Insertions  int
	Deletions   int
}

// GeneratedFile is one file written by a report run. Format is the document
// format for reports, or the container type for data files and archives.
type GeneratedFile struct {
	Kind   ReportKind `json:"kind"`
	Format string     `json:"format"`
	Path   string     `json:"path"`
	Size   int64      `json:"size"`
}
