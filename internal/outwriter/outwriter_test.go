package outwriter

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

var now = time.Date(2024, time.March, 13, 15, 30, 45, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNaming_FileName(t *testing.T) {
	tests := []struct {
		name     string
		naming   Naming
		kind     schema.ReportKind
		format   schema.OutputFormat
		expected string
	}{
		{
			name:     "default window",
			naming:   Naming{Repo: "shop", DefaultWindow: true, Now: now},
			kind:     schema.SummaryReport,
			format:   schema.MarkdownFormat,
			expected: "summary-shop-last_7_days-20240313_153045.md",
		},
		{
			name:     "shortcut with branch",
			naming:   Naming{Repo: "shop", Branch: "feature/x", Shortcut: schema.LastWeek, Now: now},
			kind:     schema.DetailReport,
			format:   schema.HTMLFormat,
			expected: "detail-shop-branch_feature_x-lastweek-20240313_153045.html",
		},
		{
			name:     "explicit range single author",
			naming:   Naming{Repo: "my.repo", Authors: []string{"a@x.com"}, Range: schema.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}, Now: now},
			kind:     schema.ModuleReport,
			format:   schema.MarkdownFormat,
			expected: "maven-my_repo-author_a_x_com-20240101-20240131-20240313_153045.md",
		},
		{
			name:     "open end with several authors",
			naming:   Naming{Repo: "shop", Authors: []string{"alice", "bob"}, Range: schema.DateRange{Start: day(2024, 1, 1)}, Now: now},
			kind:     schema.IndexReport,
			format:   schema.MarkdownFormat,
			expected: "index-shop-authors_alice-bob-from_20240101-20240313_153045.md",
		},
		{
			name:     "open start",
			naming:   Naming{Repo: "shop", Range: schema.DateRange{End: day(2024, 2, 1)}, Now: now},
			kind:     schema.SummaryReport,
			format:   schema.MarkdownFormat,
			expected: "summary-shop-until_20240201-20240313_153045.md",
		},
		{
			name:     "output name override",
			naming:   Naming{Repo: "shop", OutputName: "weekly report", Now: now},
			kind:     schema.DetailReport,
			format:   schema.MarkdownFormat,
			expected: "detail-weekly_report.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.naming.FileName(tt.kind, tt.format))
		})
	}
}

func TestNaming_RunToken(t *testing.T) {
	assert.Equal(t, "20240313_153045", Naming{DefaultWindow: true, Now: now}.RunToken())
	assert.Equal(t, "main_20240101-20240131_20240313_153045",
		Naming{Branch: "main", Range: schema.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}, Now: now}.RunToken())
	assert.Equal(t, "20240101_20240313_153045", Naming{Range: schema.DateRange{Start: day(2024, 1, 1)}, Now: now}.RunToken())
	assert.Equal(t, "20240201_20240313_153045", Naming{Range: schema.DateRange{End: day(2024, 2, 1)}, Now: now}.RunToken())
}

func TestLayout(t *testing.T) {
	naming := Naming{Repo: "shop", DefaultWindow: true, Now: now}
	cfg := &contract.Config{ReportsRoot: "reports"}
	layout := NewLayout(cfg, naming)
	assert.Equal(t, filepath.Join("reports", "shop", "202403", "20240313_153045"), layout.RunDir)

	assert.Equal(t, filepath.Join(layout.RunDir, "md", "summary", "s.md"), layout.Path(schema.SummaryReport, schema.MarkdownFormat, "s.md"))
	assert.Equal(t, filepath.Join(layout.RunDir, "html", "details", "d.html"), layout.Path(schema.DetailReport, schema.HTMLFormat, "d.html"))
	assert.Equal(t, filepath.Join(layout.RunDir, "md", "maven", "m.md"), layout.Path(schema.ModuleReport, schema.MarkdownFormat, "m.md"))
	assert.Equal(t, filepath.Join(layout.RunDir, "md", "i.md"), layout.Path(schema.IndexReport, schema.MarkdownFormat, "i.md"))
	assert.Equal(t, "details/d.md", layout.Link(schema.DetailReport, "d.md"))
	assert.Equal(t, filepath.Join(layout.RunDir, "data", "c.parquet"), layout.DataPath("c.parquet"))

	flat := NewLayout(&contract.Config{OutputDir: "/tmp/out", FlatDir: true}, naming)
	assert.Equal(t, "/tmp/out", flat.RunDir)
	assert.Equal(t, filepath.Join("/tmp/out", "md", "s.md"), flat.Path(schema.SummaryReport, schema.MarkdownFormat, "s.md"))
	assert.Equal(t, "d.md", flat.Link(schema.DetailReport, "d.md"))
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.md")
	n, err := WriteText(path, "# hi\n")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(content))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	_, err = WriteText(filepath.Join(blocker, "x.md"), "x")
	assert.ErrorIs(t, err, contract.ErrPersist)
}

func TestToHTML(t *testing.T) {
	page, err := ToHTML("shop <report>", "# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "<title>shop &lt;report&gt;</title>")
	assert.Contains(t, page, `<h1 id="title">Title</h1>`)
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>2</td>")
}

func TestOutWriter(t *testing.T) {
	naming := Naming{Repo: "shop", DefaultWindow: true, Now: now}
	layout := Layout{RunDir: t.TempDir()}
	ow := NewOutWriter(layout, naming, schema.BothFormat, nil)

	require.NoError(t, ow.WriteReport(schema.SummaryReport, "shop", "# Summary\n"))
	require.NoError(t, ow.WriteDocument(schema.IndexReport, schema.MarkdownFormat, "shop", "# Index\n"))

	files := ow.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "md", files[0].Format)
	assert.Equal(t, "html", files[1].Format)
	assert.Equal(t, schema.IndexReport, files[2].Kind)
	for _, f := range files {
		assert.FileExists(t, f.Path)
		assert.Positive(t, f.Size)
	}
	assert.Equal(t, "summary/summary-shop-last_7_days-20240313_153045.html", ow.Link(schema.SummaryReport, schema.HTMLFormat))

	zipPath, err := ow.Zip("bundle")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.RunDir, "bundle.zip"), zipPath)

	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()
	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"html/summary/summary-shop-last_7_days-20240313_153045.html",
		"md/index-shop-last_7_days-20240313_153045.md",
		"md/summary/summary-shop-last_7_days-20240313_153045.md",
	}, names)
	assert.Equal(t, schema.ArchiveFile, ow.Files()[3].Kind)
}

func TestZipDir_DefaultName(t *testing.T) {
	runDir := filepath.Join(t.TempDir(), "run_1")
	_, err := WriteText(filepath.Join(runDir, "md", "a.md"), "a")
	require.NoError(t, err)

	zipPath, err := ZipDir(runDir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, "run_1.zip"), zipPath)

	_, err = ZipDir(filepath.Join(t.TempDir(), "missing"), "x")
	assert.ErrorIs(t, err, contract.ErrPersist)
}

func TestConsoleTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBranches(&buf, []schema.BranchInfo{{Name: "dev"}, {Name: "main", Current: true}}))
	assert.Contains(t, buf.String(), "main")
	assert.Contains(t, buf.String(), "👉")

	buf.Reset()
	require.NoError(t, PrintIdentities(&buf, []string{"Alice <a@x.com>"}))
	assert.Contains(t, buf.String(), "Alice <a@x.com>")

	buf.Reset()
	require.NoError(t, PrintGeneratedFiles(&buf, []schema.GeneratedFile{
		{Kind: schema.SummaryReport, Format: "md", Path: "reports/x.md", Size: 2048},
	}))
	assert.Contains(t, buf.String(), "reports/x.md")
	assert.Contains(t, buf.String(), "2.0 kB")
	assert.Contains(t, buf.String(), "Generated 1 files")
}

func TestSearchConditions(t *testing.T) {
	assert.Equal(t, "Range: last 7 days", SearchConditions(&contract.Config{DefaultWindow: true}))
	assert.Equal(t, "Branch: dev | Authors: alice, bob | Range: last week",
		SearchConditions(&contract.Config{Branch: "dev", Authors: []string{"alice", "bob"}, Shortcut: schema.LastWeek}))
	assert.Equal(t, "Range: 2024-01-01 to 2024-01-31",
		SearchConditions(&contract.Config{Range: schema.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}}))
}
