// Package render turns aggregated report data into Markdown documents.
//
// Every report is a list of independent sections joined once by Document.
// Line deltas always use the "+N" / "-N" sign convention.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/gitreport/schema"
)

const timeLayout = "2006-01-02 15:04:05"

// Document joins sections, each of which ends with a newline, into one text.
func Document(sections ...string) string {
	var b strings.Builder
	for i, s := range sections {
		if s == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s)
	}
	return b.String()
}

// Detail renders the full commit report. The module report is appended when
// modules were discovered.
func Detail(data schema.ReportData) string {
	sections := []string{
		"# 📊 Git Commit Report\n",
		repoSection(data.Repo),
		branchSection(data.Repo.Branches),
		statsSection(data.Totals),
		authorTable(data.Authors),
		topFilesSection(data.TopFiles),
		commitsSection(data.Days),
	}
	if data.HasModules() {
		sections = append(sections, "---\n", ModuleReport(data))
	}
	return Document(sections...)
}

// Summary renders the overview report. The impact report is appended when
// modules were discovered.
func Summary(data schema.ReportData) string {
	sections := []string{
		"# 📑 Git Commit Summary\n",
		repoSection(data.Repo),
		overviewSection(data.Totals, len(data.Modules), data.HasModules()),
		contributionTable(data.Authors),
		fileTypesSection(data.FileTypes),
		messagesSection(data.Days),
	}
	if data.HasModules() {
		sections = append(sections, ImpactReport(data.Impacts))
	}
	return Document(sections...)
}

// ModuleReport renders the module structure followed by the per-module layout breakdown.
func ModuleReport(data schema.ReportData) string {
	var b strings.Builder
	b.WriteString("# 📦 Module Report\n\n## Project Structure\n\n")
	for _, m := range data.Modules {
		fmt.Fprintf(&b, "- %s (`%s`)\n", m.Name, modulePath(m.Path))
	}
	b.WriteString("\n## Module Changes\n\n")
	if len(data.Layouts) == 0 {
		b.WriteString("No module changes in this range.\n")
	}
	for _, ml := range data.Layouts {
		fmt.Fprintf(&b, "### 📦 %s\n\n", ml.Module.Name)
		fmt.Fprintf(&b, "- Changed files: %d\n", ml.Files)
		fmt.Fprintf(&b, "- Lines: %s, %s\n\n", plus(ml.Insertions), minus(ml.Deletions))

		b.WriteString("#### File Types\n\n")
		b.WriteString("| Type | Files | Insertions | Deletions |\n")
		b.WriteString("|------|-------|------------|-----------|\n")
		for _, l := range ml.Layouts {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", l.Label, len(l.Files), plus(l.Insertions), minus(l.Deletions))
		}

		b.WriteString("\n#### Changed Files\n\n")
		for _, l := range ml.Layouts {
			fmt.Fprintf(&b, "**%s**:\n", l.Label)
			for _, f := range l.Files {
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// ImpactReport renders the per-module impact overview and details.
func ImpactReport(impacts []schema.ModuleImpact) string {
	var b strings.Builder
	b.WriteString("# 📊 Module Impact Report\n\n## 📋 Overview\n\n")
	b.WriteString("| Module |")
	for _, c := range schema.AllImpactCategories {
		fmt.Fprintf(&b, " %s |", c.Label())
	}
	b.WriteString("\n|--------|")
	for range schema.AllImpactCategories {
		b.WriteString("-----|")
	}
	b.WriteString("\n")
	for _, impact := range impacts {
		fmt.Fprintf(&b, "| %s |", cell(impact.Module.Name))
		for _, c := range schema.AllImpactCategories {
			if impact.Count(c) > 0 {
				b.WriteString(" ✓ |")
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## 📦 Module Details\n\n")
	for _, impact := range impacts {
		fmt.Fprintf(&b, "### %s\n\n", impact.Module.Name)
		fmt.Fprintf(&b, "- Lines: %s, %s\n\n", plus(impact.Insertions), minus(impact.Deletions))
		b.WriteString("#### Change Types\n\n| Type | Files |\n|------|-------|\n")
		for _, c := range schema.AllImpactCategories {
			if n := impact.Count(c); n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", c.Label(), n)
			}
		}
		b.WriteString("\n#### Changed Files\n\n")
		for _, c := range schema.AllImpactCategories {
			files := impact.Categories[c]
			if len(files) == 0 {
				continue
			}
			fmt.Fprintf(&b, "##### %s\n\n", c.Label())
			for _, f := range files {
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

// IndexLinks holds the relative links from the index to the other documents.
// Module is empty when no module report was written.
type IndexLinks struct {
	Summary string
	Detail  string
	Module  string
}

// Index renders the navigation page linking the reports of one run.
func Index(repo schema.RepoInfo, links IndexLinks) string {
	var b strings.Builder
	b.WriteString("# 🔍 Git Commit Analysis\n\n## 📌 Overview\n\n")
	fmt.Fprintf(&b, "- **Repository**: `%s`\n", repo.Name)
	fmt.Fprintf(&b, "- **Branch**: `%s`\n", repo.Branch)
	fmt.Fprintf(&b, "- **Range**: %s\n", repo.RangeLabel)
	fmt.Fprintf(&b, "- **Generated**: %s\n\n", repo.GeneratedAt.Format(timeLayout))

	b.WriteString("## 📑 Reports\n\n")
	fmt.Fprintf(&b, "### 1️⃣ [Summary Report](%s)\n\n", links.Summary)
	b.WriteString("- Change overview\n- Author contributions\n- File type distribution\n- Main changes by day\n\n")
	fmt.Fprintf(&b, "### 2️⃣ [Detail Report](%s)\n\n", links.Detail)
	b.WriteString("- Every commit in range\n- Per-file changes\n- Line statistics\n\n")
	if links.Module != "" {
		fmt.Fprintf(&b, "### 3️⃣ [Module Report](%s)\n\n", links.Module)
		b.WriteString("- Module structure\n- Module impact\n- Changed files by layout\n\n")
	}
	b.WriteString("---\n*Generated by gitreport*\n")
	return b.String()
}

func repoSection(repo schema.RepoInfo) string {
	var b strings.Builder
	b.WriteString("## 📌 Repository\n\n")
	fmt.Fprintf(&b, "- **Name**: `%s`\n", repo.Name)
	fmt.Fprintf(&b, "- **Path**: `%s`\n", repo.Path)
	fmt.Fprintf(&b, "- **Branch**: `%s`\n", repo.Branch)
	fmt.Fprintf(&b, "- **Range**: %s\n", repo.RangeLabel)
	if len(repo.Authors) > 0 {
		fmt.Fprintf(&b, "- **Authors**: %s\n", strings.Join(repo.Authors, ", "))
	}
	fmt.Fprintf(&b, "- **Generated**: %s\n", repo.GeneratedAt.Format(timeLayout))
	return b.String()
}

func branchSection(branches []schema.BranchInfo) string {
	if len(branches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("### 🌿 Branches\n\n")
	for _, br := range branches {
		if br.Current {
			fmt.Fprintf(&b, "- 👉 `%s`\n", br.Name)
		} else {
			fmt.Fprintf(&b, "- `%s`\n", br.Name)
		}
	}
	return b.String()
}

func statsSection(t schema.Totals) string {
	return fmt.Sprintf("## 📈 Statistics\n\n- **Commits**: %d\n- **Lines**: %s, %s\n",
		t.Commits, plus(t.Insertions), minus(t.Deletions))
}

func authorTable(authors []schema.AuthorStats) string {
	var b strings.Builder
	b.WriteString("## 👥 Authors\n\n")
	b.WriteString("| Author | Email | Commits | Insertions | Deletions |\n")
	b.WriteString("|--------|-------|---------|------------|-----------|\n")
	for _, a := range authors {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n", cell(a.Name), cell(a.Email), a.Commits, plus(a.Insertions), minus(a.Deletions))
	}
	return b.String()
}

func topFilesSection(files []schema.FileStats) string {
	var b strings.Builder
	b.WriteString("## 📁 Most Changed Files\n\n")
	b.WriteString("| File | Changes | Insertions | Deletions |\n")
	b.WriteString("|------|---------|------------|-----------|\n")
	for _, f := range files {
		fmt.Fprintf(&b, "| `%s` | %d | %s | %s |\n", cell(f.Path), f.Changes, plus(f.Insertions), minus(f.Deletions))
	}
	return b.String()
}

func commitsSection(days []schema.DayCommits) string {
	var b strings.Builder
	b.WriteString("## 📝 Commits\n\n")
	for _, day := range days {
		fmt.Fprintf(&b, "### 📅 %s\n\n", day.Day.Format("2006-01-02"))
		for _, c := range day.Commits {
			fmt.Fprintf(&b, "#### ⚡ Commit `%s`\n\n", c.ShortHash())
			fmt.Fprintf(&b, "- **Author**: %s <%s>\n", c.AuthorName, c.AuthorEmail)
			fmt.Fprintf(&b, "- **Time**: %s\n", c.Timestamp.UTC().Format("15:04:05"))
			fmt.Fprintf(&b, "- **Changes**: %s, %s\n", plus(c.Insertions), minus(c.Deletions))
			fmt.Fprintf(&b, "- **Message**: %s\n\n", c.Message)
			if len(c.Files) > 0 {
				b.WriteString("**Changed files**:\n")
				for _, p := range sortedPaths(c.Files) {
					change := c.Files[p]
					fmt.Fprintf(&b, "- `%s`: %s %s\n", p, plus(change.Insertions), minus(change.Deletions))
				}
			}
			b.WriteString("\n---\n\n")
		}
	}
	return b.String()
}

func overviewSection(t schema.Totals, moduleCount int, hasModules bool) string {
	var b strings.Builder
	b.WriteString("## 📊 Overview\n\n")
	fmt.Fprintf(&b, "- Commits: **%d**\n", t.Commits)
	fmt.Fprintf(&b, "- Authors: **%d**\n", t.Authors)
	fmt.Fprintf(&b, "- Files changed: **%d**\n", t.Files)
	fmt.Fprintf(&b, "- Lines: **%s**, **%s**\n", plus(t.Insertions), minus(t.Deletions))
	if hasModules {
		fmt.Fprintf(&b, "- Modules: **%d**\n", moduleCount)
	}
	return b.String()
}

func contributionTable(authors []schema.AuthorStats) string {
	var b strings.Builder
	b.WriteString("## 👥 Contributions\n\n")
	b.WriteString("| Author | Commits | Insertions | Deletions |\n")
	b.WriteString("|--------|---------|------------|-----------|\n")
	for _, a := range authors {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", cell(a.Name), a.Commits, plus(a.Insertions), minus(a.Deletions))
	}
	return b.String()
}

func fileTypesSection(types []schema.FileTypeStats) string {
	if len(types) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## 📁 File Types\n\n")
	b.WriteString("| Type | Files | Changes | Insertions | Deletions | Share |\n")
	b.WriteString("|------|-------|---------|------------|-----------|-------|\n")
	for _, ft := range types {
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %.1f%% |\n",
			ft.Label, len(ft.Files), ft.Changes, plus(ft.Insertions), minus(ft.Deletions), ft.Percentage)
	}
	b.WriteString("\n### File List\n\n")
	for _, ft := range types {
		fmt.Fprintf(&b, "#### %s\n\n", ft.Label)
		for _, f := range ft.Files {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func messagesSection(days []schema.DayCommits) string {
	var b strings.Builder
	b.WriteString("## 💡 Main Changes\n\n")
	for _, day := range days {
		fmt.Fprintf(&b, "### 📅 %s\n\n", day.Day.Format("2006-01-02"))
		for _, c := range day.Commits {
			fmt.Fprintf(&b, "- %s\n", c.Subject())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func plus(n int) string {
	return fmt.Sprintf("+%d", n)
}

func minus(n int) string {
	return fmt.Sprintf("-%d", n)
}

// cell escapes pipes so a value cannot break a table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func modulePath(p string) string {
	if p == "" {
		return "."
	}
	return p
}

func sortedPaths(files map[string]schema.FileChange) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
