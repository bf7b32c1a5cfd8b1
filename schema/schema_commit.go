// Package schema has the models shared by collection, aggregation, rendering
// and persistence of gitreport runs.
package schema

import "time"

// FileChange is the line delta of one file within one commit.
type FileChange struct {
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// CommitRecord is one commit as read from the repository.
// Records are built once by the collector and never mutated afterwards.
type CommitRecord struct {
	Hash        string                `json:"hash"`
	AuthorName  string                `json:"author_name"`
	AuthorEmail string                `json:"author_email"`
	Timestamp   time.Time             `json:"timestamp"`
	Message     string                `json:"message"`
	Insertions  int                   `json:"insertions"`
	Deletions   int                   `json:"deletions"`
	Files       map[string]FileChange `json:"files"`
}

// ShortHash returns the first eight characters of the commit hash.
func (c CommitRecord) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// Subject returns the first line of the commit message.
func (c CommitRecord) Subject() string {
	for i, r := range c.Message {
		if r == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// DateRange is a pair of optional bounds. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r DateRange) IsEmpty() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls within the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// ModuleInfo identifies a build module by display name and repo-relative directory.
// The repository root has an empty Path.
type ModuleInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// BranchInfo is one local branch.
type BranchInfo struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

// RepoInfo is the repository metadata shown at the top of reports.
type RepoInfo struct {
	Name        string       `json:"name"`
	Path        string       `json:"path"`
	Branch      string       `json:"branch"`
	Branches    []BranchInfo `json:"branches"`
	RangeLabel  string       `json:"range_label"`
	Authors     []string     `json:"authors,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
}
