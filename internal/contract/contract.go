// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitreport/schema"
)

// Separators used in the commit log format requested from git.
// Record separator precedes each commit; unit separator splits its fields.
const (
	LogRecordSep = "\x1e"
	LogFieldSep  = "\x1f"
)

// GitClient defines the version-control operations needed to build reports.
// This allows the collection logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetCommitLog returns every commit reachable from HEAD, newest first, in the
	// record-separated format described by LogRecordSep and LogFieldSep, each
	// record followed by its NUL-terminated numstat entries with unquoted paths.
	// A repository without commits yields nil.
	GetCommitLog(ctx context.Context, repoPath string) ([]byte, error)

	// ListIdentities returns every distinct "Name <email>" author identity, sorted.
	ListIdentities(ctx context.Context, repoPath string) ([]string, error)

	// ListBranches returns the local branch names, sorted.
	ListBranches(ctx context.Context, repoPath string) ([]string, error)

	// CurrentBranch returns the checked out branch name.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)

	// Checkout switches the working tree to the named local branch.
	// It returns an error wrapping ErrBranchNotFound when the branch is missing.
	Checkout(ctx context.Context, repoPath string, branch string) error
}

// HistoryStore defines the interface for tracking report runs.
type HistoryStore interface {
	// BeginRun creates a new run record and returns its unique ID.
	BeginRun(startTime time.Time, run schema.RunRecord, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totals schema.Totals) error

	// RecordAuthorTotals stores the per-author fold of a run.
	RecordAuthorTotals(runID int64, authors []schema.AuthorStats) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all run records.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllAuthorTotals retrieves all per-author rows.
	GetAllAuthorTotals() ([]schema.AuthorTotalRecord, error)

	// Clear removes every stored run.
	Clear() error

	// Close releases the underlying connection.
	Close() error
}
