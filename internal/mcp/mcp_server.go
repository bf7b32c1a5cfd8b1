// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// Option customizes the tool handlers of a gitreport MCP server.
type Option func(*toolHandler)

// WithClock sets the clock that anchors date windows for each tool call.
func WithClock(now func() time.Time) Option {
	return func(h *toolHandler) {
		h.now = now
	}
}

// NewMCPServer initializes and configures the gitreport MCP server without starting it.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, logger *logrus.Logger, opts ...Option) *server.MCPServer {
	s := server.NewMCPServer(
		"gitreport",
		"1.0.0",
		server.WithLogging(),
	)

	if logger == nil {
		logger = contract.NewDiscardLogger()
	}
	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	shortcuts := make([]string, len(schema.AllDateShortcuts))
	for i, sc := range schema.AllDateShortcuts {
		shortcuts[i] = string(sc)
	}

	s.AddTool(mcp.NewTool("list_branches",
		mcp.WithDescription("List the local branches of a Git repository and mark the checked out one."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's repository).")),
	), h.handleListBranches)

	s.AddTool(mcp.NewTool("list_authors",
		mcp.WithDescription("List every distinct author identity (\"Name <email>\") in the repository history."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleListAuthors)

	s.AddTool(mcp.NewTool("summarize_commits",
		mcp.WithDescription("Render the Markdown commit summary for a date range, optionally filtered by authors."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("date", mcp.Description("Named date window. Takes precedence over start and end."), mcp.Enum(shortcuts...)),
		mcp.WithString("start", mcp.Description("First day of the range (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Last day of the range, inclusive (YYYY-MM-DD).")),
		mcp.WithString("authors", mcp.Description("Comma-separated author filters matched against \"Name <email>\".")),
		mcp.WithBoolean("maven", mcp.Description("Include the module impact report.")),
	), h.handleSummarizeCommits)

	return s
}

// StartMCPServer serves the gitreport tools over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, logger *logrus.Logger) error {
	s := NewMCPServer(baseCfg, client, logger)
	return server.ServeStdio(s)
}
