//go:build integration || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a gitreport binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the gitreport binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "gitreport-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "gitreport")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from the project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build gitreport: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runGitreport runs the binary inside dir and returns its combined output.
func runGitreport(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GITREPORT_COLOR=no")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// fixtureCommit describes one commit of a fixture repository.
type fixtureCommit struct {
	author  string
	email   string
	ago     time.Duration
	path    string
	content string
}

// newFixtureRepo creates a Git repository with the given commits, oldest first.
func newFixtureRepo(t *testing.T, commits []fixtureCommit) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git := func(env []string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	}

	git(nil, "init", "-q", "-b", "main")
	git(nil, "config", "user.name", "Fixture")
	git(nil, "config", "user.email", "fixture@example.com")
	for i, c := range commits {
		full := filepath.Join(dir, c.path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(c.content), 0o644))
		git(nil, "add", c.path)

		when := time.Now().Add(-c.ago).Format(time.RFC3339)
		env := []string{
			"GIT_AUTHOR_NAME=" + c.author,
			"GIT_AUTHOR_EMAIL=" + c.email,
			"GIT_AUTHOR_DATE=" + when,
			"GIT_COMMITTER_DATE=" + when,
		}
		git(env, "commit", "-q", "-m", fmt.Sprintf("change %d", i+1))
	}
	return dir
}

// defaultFixture is a small Maven repository touched by two authors.
func defaultFixture() []fixtureCommit {
	return []fixtureCommit{
		{"Alice", "alice@example.com", 72 * time.Hour, "pom.xml", "<project/>\n"},
		{"Alice", "alice@example.com", 48 * time.Hour, "api/pom.xml", "<project/>\n"},
		{"Bob", "bob@example.com", 30 * time.Hour, "api/src/main/java/Api.java", "class Api {}\n"},
		{"Alice", "alice@example.com", 2 * time.Hour, "README.md", "# demo\n\nnotes\n"},
	}
}
