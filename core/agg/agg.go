// Package agg folds commit records into the typed buckets used by reports.
//
// Every fold is independent of the order of its input: ties are broken on a
// stable key so that shuffled commits produce identical output.
package agg

import (
	"sort"
	"time"

	"github.com/huangsam/gitreport/core/classify"
	"github.com/huangsam/gitreport/schema"
)

// Locator maps a changed path to its enclosing module.
type Locator interface {
	Locate(filePath string) (schema.ModuleInfo, bool)
}

// Build runs every fold over commits. Module folds run only when modules is non-empty.
func Build(repo schema.RepoInfo, commits []schema.CommitRecord, locator Locator, modules []schema.ModuleInfo, topFiles int) schema.ReportData {
	data := schema.ReportData{
		Repo:      repo,
		Totals:    Totals(commits),
		Authors:   Authors(commits),
		TopFiles:  Files(commits, topFiles),
		FileTypes: FileTypes(commits),
		Days:      ByDate(commits),
		Modules:   modules,
	}
	if len(modules) > 0 && locator != nil {
		data.Impacts = ModuleImpacts(commits, locator)
		data.Layouts = ModuleLayouts(commits, locator)
	}
	return data
}

// Totals computes the headline counts.
func Totals(commits []schema.CommitRecord) schema.Totals {
	authors := make(map[string]struct{})
	files := make(map[string]struct{})
	var t schema.Totals
	for _, c := range commits {
		t.Commits++
		t.Insertions += c.Insertions
		t.Deletions += c.Deletions
		authors[c.AuthorName] = struct{}{}
		for p := range c.Files {
			files[p] = struct{}{}
		}
	}
	t.Authors = len(authors)
	t.Files = len(files)
	return t
}

// earlier orders commits by timestamp, then hash.
func earlier(a, b schema.CommitRecord) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Hash < b.Hash
}

// Authors folds commits per author name. The email is the one on the
// author's earliest commit. Sorted by commits desc, then name.
func Authors(commits []schema.CommitRecord) []schema.AuthorStats {
	byName := make(map[string]*schema.AuthorStats)
	first := make(map[string]schema.CommitRecord)
	for _, c := range commits {
		s, ok := byName[c.AuthorName]
		if !ok {
			s = &schema.AuthorStats{Name: c.AuthorName}
			byName[c.AuthorName] = s
		}
		s.Commits++
		s.Insertions += c.Insertions
		s.Deletions += c.Deletions
		if prev, seen := first[c.AuthorName]; !seen || earlier(c, prev) {
			first[c.AuthorName] = c
			s.Email = c.AuthorEmail
		}
	}

	out := make([]schema.AuthorStats, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Files folds commits per path and returns the limit most changed files,
// sorted by changes desc, then path. A limit <= 0 returns every file.
func Files(commits []schema.CommitRecord, limit int) []schema.FileStats {
	byPath := make(map[string]*schema.FileStats)
	for _, c := range commits {
		for p, change := range c.Files {
			s, ok := byPath[p]
			if !ok {
				s = &schema.FileStats{Path: p}
				byPath[p] = s
			}
			s.Changes++
			s.Insertions += change.Insertions
			s.Deletions += change.Deletions
		}
	}

	out := make([]schema.FileStats, 0, len(byPath))
	for _, s := range byPath {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Changes != out[j].Changes {
			return out[i].Changes > out[j].Changes
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FileTypes folds commits per classify.FileType label. Changes counts
// commit-file occurrences; Percentage is the bucket's share of distinct files.
// Sorted by distinct files desc, then label.
func FileTypes(commits []schema.CommitRecord) []schema.FileTypeStats {
	type bucket struct {
		stats schema.FileTypeStats
		files map[string]struct{}
	}
	byLabel := make(map[string]*bucket)
	for _, c := range commits {
		for p, change := range c.Files {
			label := classify.FileType(p)
			b, ok := byLabel[label]
			if !ok {
				b = &bucket{stats: schema.FileTypeStats{Label: label}, files: make(map[string]struct{})}
				byLabel[label] = b
			}
			b.files[p] = struct{}{}
			b.stats.Changes++
			b.stats.Insertions += change.Insertions
			b.stats.Deletions += change.Deletions
		}
	}

	total := 0
	for _, b := range byLabel {
		total += len(b.files)
	}

	out := make([]schema.FileTypeStats, 0, len(byLabel))
	for _, b := range byLabel {
		b.stats.Files = sortedKeys(b.files)
		if total > 0 {
			b.stats.Percentage = float64(len(b.files)) / float64(total) * 100
		}
		out = append(out, b.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Files) != len(out[j].Files) {
			return len(out[i].Files) > len(out[j].Files)
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// ModuleImpacts folds commits per module. Line deltas include every file of
// the module; categories hold only files with an impact category. Modules
// without categorized files are dropped. Sorted by categorized files desc,
// then module name and path.
func ModuleImpacts(commits []schema.CommitRecord, locator Locator) []schema.ModuleImpact {
	type bucket struct {
		impact schema.ModuleImpact
		sets   map[schema.ImpactCategory]map[string]struct{}
	}
	byModule := make(map[string]*bucket)
	for _, c := range commits {
		for p, change := range c.Files {
			m, ok := locator.Locate(p)
			if !ok {
				continue
			}
			b, ok := byModule[m.Path]
			if !ok {
				b = &bucket{
					impact: schema.ModuleImpact{Module: m},
					sets:   make(map[schema.ImpactCategory]map[string]struct{}),
				}
				byModule[m.Path] = b
			}
			b.impact.Insertions += change.Insertions
			b.impact.Deletions += change.Deletions

			category, ok := classify.ImpactCategory(p)
			if !ok {
				continue
			}
			if b.sets[category] == nil {
				b.sets[category] = make(map[string]struct{})
			}
			b.sets[category][p] = struct{}{}
		}
	}

	out := make([]schema.ModuleImpact, 0, len(byModule))
	for _, b := range byModule {
		if len(b.sets) == 0 {
			continue
		}
		b.impact.Categories = make(map[schema.ImpactCategory][]string, len(b.sets))
		for category, files := range b.sets {
			b.impact.Categories[category] = sortedKeys(files)
		}
		out = append(out, b.impact)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total() != out[j].Total() {
			return out[i].Total() > out[j].Total()
		}
		return moduleLess(out[i].Module, out[j].Module)
	})
	return out
}

// ModuleLayouts folds commits per module and classify.Layout label.
// Modules are sorted by name then path; layouts by label.
func ModuleLayouts(commits []schema.CommitRecord, locator Locator) []schema.ModuleLayout {
	type layoutBucket struct {
		stats schema.LayoutStats
		files map[string]struct{}
	}
	type bucket struct {
		layout  schema.ModuleLayout
		files   map[string]struct{}
		layouts map[string]*layoutBucket
	}
	byModule := make(map[string]*bucket)
	for _, c := range commits {
		for p, change := range c.Files {
			m, ok := locator.Locate(p)
			if !ok {
				continue
			}
			b, ok := byModule[m.Path]
			if !ok {
				b = &bucket{
					layout:  schema.ModuleLayout{Module: m},
					files:   make(map[string]struct{}),
					layouts: make(map[string]*layoutBucket),
				}
				byModule[m.Path] = b
			}
			label := classify.Layout(p)
			lb, ok := b.layouts[label]
			if !ok {
				lb = &layoutBucket{stats: schema.LayoutStats{Label: label}, files: make(map[string]struct{})}
				b.layouts[label] = lb
			}
			b.files[p] = struct{}{}
			lb.files[p] = struct{}{}
			lb.stats.Insertions += change.Insertions
			lb.stats.Deletions += change.Deletions
			b.layout.Insertions += change.Insertions
			b.layout.Deletions += change.Deletions
		}
	}

	out := make([]schema.ModuleLayout, 0, len(byModule))
	for _, b := range byModule {
		b.layout.Files = len(b.files)
		for _, lb := range b.layouts {
			lb.stats.Files = sortedKeys(lb.files)
			b.layout.Layouts = append(b.layout.Layouts, lb.stats)
		}
		sort.Slice(b.layout.Layouts, func(i, j int) bool {
			return b.layout.Layouts[i].Label < b.layout.Layouts[j].Label
		})
		out = append(out, b.layout)
	}
	sort.Slice(out, func(i, j int) bool {
		return moduleLess(out[i].Module, out[j].Module)
	})
	return out
}

// ByDate groups commits by UTC calendar day. Days are newest first and so
// are the commits within a day, ties broken by hash.
func ByDate(commits []schema.CommitRecord) []schema.DayCommits {
	byDay := make(map[time.Time][]schema.CommitRecord)
	for _, c := range commits {
		ts := c.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] = append(byDay[day], c)
	}

	out := make([]schema.DayCommits, 0, len(byDay))
	for day, list := range byDay {
		sort.Slice(list, func(i, j int) bool {
			return earlier(list[j], list[i])
		})
		out = append(out, schema.DayCommits{Day: day, Commits: list})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.After(out[j].Day)
	})
	return out
}

func moduleLess(a, b schema.ModuleInfo) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
