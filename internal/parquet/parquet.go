// Package parquet exports collected commits and run history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/gitreport/schema"
)

// Commit is one collected commit.
type Commit struct {
	Hash        string    `parquet:"hash,snappy"`
	AuthorName  string    `parquet:"author_name,snappy,dict"`
	AuthorEmail string    `parquet:"author_email,snappy,dict"`
	Timestamp   time.Time `parquet:"timestamp,snappy"`
	Subject     string    `parquet:"subject,snappy"`
	Insertions  int32     `parquet:"insertions,snappy"`
	Deletions   int32     `parquet:"deletions,snappy"`
	FilesCount  int32     `parquet:"files_count,snappy"`
}

// FileChange is the line delta of one file within one commit.
type FileChange struct {
	Hash       string    `parquet:"hash,snappy"`
	Timestamp  time.Time `parquet:"timestamp,snappy"`
	FilePath   string    `parquet:"file_path,snappy"`
	FileType   string    `parquet:"file_type,snappy,dict"`
	Insertions int32     `parquet:"insertions,snappy"`
	Deletions  int32     `parquet:"deletions,snappy"`
}

// Run maps to the gitreport_runs table.
type Run struct {
	RunID        int64      `parquet:"run_id,snappy"`
	RepoName     string     `parquet:"repo_name,snappy,dict"`
	Branch       string     `parquet:"branch,snappy,dict"`
	RangeLabel   string     `parquet:"range_label,snappy"`
	StartTime    time.Time  `parquet:"start_time,snappy"`
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs   *int64     `parquet:"run_duration_ms,optional,snappy"`
	TotalCommits int32      `parquet:"total_commits,snappy"`
	TotalAuthors int32      `parquet:"total_authors,snappy"`
	TotalFiles   int32      `parquet:"total_files,snappy"`
	Insertions   int32      `parquet:"insertions,snappy"`
	Deletions    int32      `parquet:"deletions,snappy"`
	OutputDir    string     `parquet:"output_dir,snappy"`
	ConfigParams *string    `parquet:"config_params,optional,snappy"`
}

// AuthorTotal maps to the gitreport_author_totals table.
type AuthorTotal struct {
	RunID       int64  `parquet:"run_id,snappy"`
	AuthorName  string `parquet:"author_name,snappy,dict"`
	AuthorEmail string `parquet:"author_email,snappy,dict"`
	Commits     int32  `parquet:"commits,snappy"`
	Insertions  int32  `parquet:"insertions,snappy"`
	Deletions   int32  `parquet:"deletions,snappy"`
}

// writeRows writes rows to outputPath with a schema inferred from T.
func writeRows[T any](rows []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCommits writes one row per commit.
func WriteCommits(commits []schema.CommitRecord, outputPath string) error {
	return writeRows(ConvertCommits(commits), outputPath)
}

// WriteFileChanges writes one row per file per commit.
func WriteFileChanges(commits []schema.CommitRecord, fileType func(string) string, outputPath string) error {
	return writeRows(ConvertFileChanges(commits, fileType), outputPath)
}

// WriteRuns writes the stored run history.
func WriteRuns(records []schema.RunRecord, outputPath string) error {
	return writeRows(ConvertRunRecords(records), outputPath)
}

// WriteAuthorTotals writes the stored per-author rows.
func WriteAuthorTotals(records []schema.AuthorTotalRecord, outputPath string) error {
	return writeRows(ConvertAuthorTotalRecords(records), outputPath)
}

// ConvertCommits converts commit records for Parquet export.
func ConvertCommits(commits []schema.CommitRecord) []Commit {
	result := make([]Commit, len(commits))
	for i, c := range commits {
		result[i] = Commit{
			Hash:        c.Hash,
			AuthorName:  c.AuthorName,
			AuthorEmail: c.AuthorEmail,
			Timestamp:   c.Timestamp,
			Subject:     c.Subject(),
			Insertions:  int32(c.Insertions),
			Deletions:   int32(c.Deletions),
			FilesCount:  int32(len(c.Files)),
		}
	}
	return result
}

// ConvertFileChanges flattens commits into file rows, paths sorted within a commit.
func ConvertFileChanges(commits []schema.CommitRecord, fileType func(string) string) []FileChange {
	var result []FileChange
	for _, c := range commits {
		paths := make([]string, 0, len(c.Files))
		for p := range c.Files {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		for _, p := range paths {
			fc := c.Files[p]
			result = append(result, FileChange{
				Hash:       c.Hash,
				Timestamp:  c.Timestamp,
				FilePath:   p,
				FileType:   fileType(p),
				Insertions: int32(fc.Insertions),
				Deletions:  int32(fc.Deletions),
			})
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:        r.RunID,
			RepoName:     r.RepoName,
			Branch:       r.Branch,
			RangeLabel:   r.RangeLabel,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			DurationMs:   r.DurationMs,
			TotalCommits: int32(r.TotalCommits),
			TotalAuthors: int32(r.TotalAuthors),
			TotalFiles:   int32(r.TotalFiles),
			Insertions:   int32(r.Insertions),
			Deletions:    int32(r.Deletions),
			OutputDir:    r.OutputDir,
			ConfigParams: r.ConfigParams,
		}
	}
	return result
}

// ConvertAuthorTotalRecords converts schema.AuthorTotalRecord to AuthorTotal for Parquet export.
func ConvertAuthorTotalRecords(records []schema.AuthorTotalRecord) []AuthorTotal {
	result := make([]AuthorTotal, len(records))
	for i, r := range records {
		result[i] = AuthorTotal{
			RunID:       r.RunID,
			AuthorName:  r.AuthorName,
			AuthorEmail: r.AuthorEmail,
			Commits:     int32(r.Commits),
			Insertions:  int32(r.Insertions),
			Deletions:   int32(r.Deletions),
		}
	}
	return result
}
