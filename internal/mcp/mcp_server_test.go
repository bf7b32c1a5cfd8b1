package mcp_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitreport/internal/contract"
	mcp_internal "github.com/huangsam/gitreport/internal/mcp"
)

var fixedNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)

type logWriter struct{ strings.Builder }

func (b *logWriter) write(hash, name, email string, when time.Time, msg, numstat string) {
	b.WriteString(contract.LogRecordSep)
	b.WriteString(strings.Join([]string{hash, name, email, fmt.Sprint(when.Unix()), msg + "\n", ""}, contract.LogFieldSep))
	b.WriteString("\n" + numstat + "\n")
}

func commitLog() []byte {
	var b logWriter
	b.write(strings.Repeat("b", 40), "Bob", "bob@example.com", fixedNow.Add(-2*time.Hour), "Fix login", "3\t1\tsrc/Login.java")
	b.write(strings.Repeat("a", 40), "Alice", "alice@example.com", fixedNow.Add(-26*time.Hour), "Add readme", "10\t0\tREADME.md")
	return []byte(b.String())
}

func newServerWithMock(t *testing.T) (*contract.MockGitClient, func(name string, args map[string]any) *mcp.CallToolResult) {
	t.Helper()
	repo := t.TempDir()
	client := &contract.MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return(repo, nil)

	s := mcp_internal.NewMCPServer(&contract.Config{RepoPath: repo, Now: fixedNow}, client, nil,
		mcp_internal.WithClock(func() time.Time { return fixedNow }))
	call := func(name string, args map[string]any) *mcp.CallToolResult {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "tool %s should exist", name)
		res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
		require.NoError(t, err, "handlers report failures in the result, not as errors")
		return res
	}
	client.On("ListBranches", mock.Anything, repo).Return([]string{"develop", "main"}, nil).Maybe()
	client.On("CurrentBranch", mock.Anything, repo).Return("main", nil).Maybe()
	client.On("GetCommitLog", mock.Anything, repo).Return(commitLog(), nil).Maybe()
	client.On("ListIdentities", mock.Anything, repo).Return([]string{"Alice <alice@example.com>", "Bob <bob@example.com>"}, nil).Maybe()
	return client, call
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServer_ListBranches(t *testing.T) {
	_, call := newServerWithMock(t)
	res := call("list_branches", map[string]any{})
	assert.False(t, res.IsError)
	assert.Contains(t, text(res), `"name": "main"`)
	assert.Contains(t, text(res), `"current": true`)
}

func TestMCPServer_ListAuthors(t *testing.T) {
	_, call := newServerWithMock(t)
	res := call("list_authors", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, text(res), "Alice <alice@example.com>")
}

func TestMCPServer_SummarizeCommits(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		contains []string
		excludes []string
	}{
		{
			name:     "default window",
			args:     map[string]any{},
			contains: []string{"Git Commit Summary", "Alice", "Bob"},
		},
		{
			name:     "today only",
			args:     map[string]any{"date": "today"},
			contains: []string{"Bob"},
			excludes: []string{"| Alice"},
		},
		{
			name:     "author filter",
			args:     map[string]any{"authors": "alice"},
			contains: []string{"| Alice"},
			excludes: []string{"| Bob"},
		},
		{
			name:     "empty range",
			args:     map[string]any{"start": "2020-01-01", "end": "2020-01-31"},
			contains: []string{"No commits found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, call := newServerWithMock(t)
			res := call("summarize_commits", tt.args)
			require.False(t, res.IsError, text(res))
			for _, s := range tt.contains {
				assert.Contains(t, text(res), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, text(res), s)
			}
		})
	}
}

func TestMCPServer_SummarizeCommitsAnchorsOnCallTime(t *testing.T) {
	repo := t.TempDir()
	now := time.Now().Truncate(time.Second)
	var b logWriter
	b.write(strings.Repeat("c", 40), "Carol", "carol@example.com", now, "Ship fix", "1\t0\tsrc/Fix.java")
	b.write(strings.Repeat("d", 40), "Dave", "dave@example.com", now.Add(-48*time.Hour), "Old work", "2\t0\tsrc/Old.java")

	client := &contract.MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return(repo, nil)
	client.On("GetCommitLog", mock.Anything, repo).Return([]byte(b.String()), nil)

	// The server was configured two days ago; "today" must still mean the day of the call.
	s := mcp_internal.NewMCPServer(&contract.Config{RepoPath: repo, Now: now.Add(-48 * time.Hour)}, client, nil)
	tool := s.GetTool("summarize_commits")
	require.NotNil(t, tool)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "summarize_commits", Arguments: map[string]any{"date": "today"}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, text(res))
	assert.Contains(t, text(res), "| Carol")
	assert.NotContains(t, text(res), "| Dave")
	assert.NotContains(t, text(res), "No commits found")
}

func TestMCPServer_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"malformed start", map[string]any{"start": "2024/01/01"}, "invalid parameters"},
		{"start after end", map[string]any{"start": "2024-02-01", "end": "2024-01-01"}, "after end date"},
		{"unknown shortcut", map[string]any{"date": "fortnight"}, "invalid --date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, call := newServerWithMock(t)
			res := call("summarize_commits", tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestMCPServer_BackendFailure(t *testing.T) {
	repo := t.TempDir()
	client := &contract.MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return(repo, nil)
	client.On("ListIdentities", mock.Anything, repo).Return(nil, fmt.Errorf("%w: boom", contract.ErrBackend))

	s := mcp_internal.NewMCPServer(&contract.Config{RepoPath: repo, Now: fixedNow}, client, nil)
	tool := s.GetTool("list_authors")
	require.NotNil(t, tool)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "list_authors"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "boom")
}
