package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("%w: git %s failed in %q: %s", ErrBackend, strings.Join(args, " "), repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("%w: git command failed: %v. Ensure Git is installed and available on your PATH", ErrBackend, err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// hasCommits reports whether HEAD resolves to a commit.
func (c *LocalGitClient) hasCommits(ctx context.Context, repoPath string) bool {
	_, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]byte, error) {
	if !c.hasCommits(ctx, repoPath) {
		return nil, nil
	}
	// -z keeps numstat paths unquoted, so non-ASCII names arrive verbatim.
	args := []string{
		"log",
		"-z",
		"--numstat",
		"--no-renames",
		"--diff-merges=first-parent",
		"--pretty=format:%x1e%H%x1f%an%x1f%ae%x1f%ct%x1f%B%x1f",
		"HEAD",
	}
	return c.Run(ctx, repoPath, args...)
}

// ListIdentities implements the GitClient interface.
func (c *LocalGitClient) ListIdentities(ctx context.Context, repoPath string) ([]string, error) {
	if !c.hasCommits(ctx, repoPath) {
		return nil, nil
	}
	out, err := c.Run(ctx, repoPath, "log", "--pretty=format:%an <%ae>", "HEAD")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var identities []string
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		identities = append(identities, line)
	}
	sort.Strings(identities)
	return identities, nil
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	var branches []string
	for line := range strings.SplitSeq(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	sort.Strings(branches)
	return branches, nil
}

// CurrentBranch implements the GitClient interface.
// A detached HEAD is reported by its abbreviated commit hash.
func (c *LocalGitClient) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "symbolic-ref", "--short", "-q", "HEAD")
	if err == nil {
		return strings.TrimSpace(string(out)), nil
	}
	out, err = c.Run(ctx, repoPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Checkout implements the GitClient interface.
func (c *LocalGitClient) Checkout(ctx context.Context, repoPath string, branch string) error {
	if _, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch); err != nil {
		return fmt.Errorf("%w: %q does not exist in %q", ErrBranchNotFound, branch, repoPath)
	}
	if _, err := c.Run(ctx, repoPath, "checkout", branch); err != nil {
		return fmt.Errorf("failed to switch to branch %q: %w", branch, err)
	}
	return nil
}
