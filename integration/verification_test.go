//go:build integration

// Package integration contains integration tests for gitreport.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReportVerification runs gitreport report and verifies author commit
// counts against git shortlog.
func TestReportVerification(t *testing.T) {
	repo := newFixtureRepo(t, defaultFixture())
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := runGitreport(t, repo, "report", "--start", "2000-01-01", "-d", outDir, "-f", "both", "-m", "--zip")
	require.NoError(t, err)

	summaries, err := filepath.Glob(filepath.Join(outDir, "md", "summary-*.md"))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	content, err := os.ReadFile(summaries[0])
	require.NoError(t, err)

	reported := parseContributions(string(content))
	expected := shortlogCounts(t, repo)
	assert.Equal(t, expected, reported)

	for _, pattern := range []string{"html/summary-*.html", "md/maven-*.md", "md/index-*.md", "html/index-*.html", "out.zip"} {
		matches, err := filepath.Glob(filepath.Join(outDir, pattern))
		require.NoError(t, err)
		assert.Len(t, matches, 1, pattern)
	}
}

func TestListModesVerification(t *testing.T) {
	repo := newFixtureRepo(t, defaultFixture())

	out, err := runGitreport(t, repo, "report", "--list-authors")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice <alice@example.com>")
	assert.Contains(t, out, "Bob <bob@example.com>")

	out, err = runGitreport(t, repo, "branches")
	require.NoError(t, err)
	assert.Contains(t, out, "main")
}

func TestUnknownBranchFails(t *testing.T) {
	repo := newFixtureRepo(t, defaultFixture())
	out, err := runGitreport(t, repo, "report", "-b", "does-not-exist", "-d", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "Branch not found")
}

// parseContributions extracts author -> commits from the summary's contribution table.
func parseContributions(markdown string) map[string]int {
	counts := make(map[string]int)
	inTable := false
	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "## 👥 Contributions"):
			inTable = true
		case inTable && strings.HasPrefix(line, "|"):
			parts := strings.Split(line, "|")
			if len(parts) < 4 {
				continue
			}
			commits, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil {
				continue // header and separator rows
			}
			counts[strings.TrimSpace(parts[1])] = commits
		case inTable && strings.HasPrefix(line, "##"):
			return counts
		}
	}
	return counts
}

// shortlogCounts returns author -> commits as reported by git itself.
func shortlogCounts(t *testing.T, repo string) map[string]int {
	t.Helper()
	cmd := exec.Command("git", "shortlog", "-sn", "HEAD")
	cmd.Dir = repo
	out, err := cmd.Output()
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), "\t", 2)
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		require.NoError(t, err)
		counts[fields[1]] = n
	}
	return counts
}
