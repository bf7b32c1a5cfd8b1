package schema

import "time"

// AuthorStats is the per-author fold of commits. The zero value is an author
// with no commits.
type AuthorStats struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Commits    int    `json:"commits"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// FileStats is the per-file fold of commits. Changes counts commits touching the file.
type FileStats struct {
	Path       string `json:"path"`
	Changes    int    `json:"changes"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// FileTypeStats is the per-file-type fold. Files holds distinct paths.
type FileTypeStats struct {
	Label      string   `json:"label"`
	Files      []string `json:"files"`
	Changes    int      `json:"changes"`
	Insertions int      `json:"insertions"`
	Deletions  int      `json:"deletions"`
	Percentage float64  `json:"percentage"`
}

// ModuleImpact is the per-module fold of categorized file changes.
// Categories maps each category to its sorted distinct paths.
type ModuleImpact struct {
	Module     ModuleInfo                  `json:"module"`
	Categories map[ImpactCategory][]string `json:"categories"`
	Insertions int                         `json:"insertions"`
	Deletions  int                         `json:"deletions"`
}

// Count returns the number of distinct files in a category.
func (m ModuleImpact) Count(c ImpactCategory) int {
	return len(m.Categories[c])
}

// Total returns the number of categorized files across all categories.
func (m ModuleImpact) Total() int {
	total := 0
	for _, files := range m.Categories {
		total += len(files)
	}
	return total
}

// Totals holds the headline counts of a report.
type Totals struct {
	Commits    int `json:"commits"`
	Authors    int `json:"authors"`
	Files      int `json:"files"`
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// DayCommits groups commits of one UTC calendar day, newest first.
type DayCommits struct {
	Day     time.Time      `json:"day"`
	Commits []CommitRecord `json:"commits"`
}

// ReportData is everything the renderers need for one run.
type ReportData struct {
	Repo      RepoInfo        `json:"repo"`
	Totals    Totals          `json:"totals"`
	Authors   []AuthorStats   `json:"authors"`
	TopFiles  []FileStats     `json:"top_files"`
	FileTypes []FileTypeStats `json:"file_types"`
	Days      []DayCommits    `json:"days"`
	Modules   []ModuleInfo    `json:"modules"`
	Impacts   []ModuleImpact  `json:"impacts"`
	Layouts   []ModuleLayout  `json:"layouts"`
}

// HasModules reports whether module discovery found anything to report on.
func (d ReportData) HasModules() bool {
	return len(d.Modules) > 0
}

// LayoutStats is one layout bucket of a module: distinct files and line deltas.
type LayoutStats struct {
	Label      string   `json:"label"`
	Files      []string `json:"files"`
	Insertions int      `json:"insertions"`
	Deletions  int      `json:"deletions"`
}

// ModuleLayout is the per-module fold shown by the module report.
type ModuleLayout struct {
	Module     ModuleInfo    `json:"module"`
	Files      int           `json:"files"`
	Insertions int           `json:"insertions"`
	Deletions  int           `json:"deletions"`
	Layouts    []LayoutStats `json:"layouts"`
}
