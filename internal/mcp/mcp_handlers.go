package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitreport/core"
	"github.com/huangsam/gitreport/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	logger  *logrus.Logger
	now     func() time.Time
}

// resolveConfig validates the tool arguments into a fresh config.
func (h *toolHandler) resolveConfig(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	// The server outlives many calls; windows anchor on the call, not on startup.
	cfg.Now = h.now()

	input := &contract.ConfigRawInput{
		RepoPathStr: h.baseCfg.RepoPath,
		Date:        request.GetString("date", ""),
		Start:       request.GetString("start", ""),
		End:         request.GetString("end", ""),
		Maven:       request.GetBool("maven", false),
		Color:       "no",
	}
	if p := request.GetString("repo_path", ""); p != "" {
		input.RepoPathStr = p
	}
	if authors := request.GetString("authors", ""); authors != "" {
		input.Authors = strings.Split(authors, ",")
	}
	if err := contract.ProcessAndValidate(ctx, cfg, h.client, input); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (h *toolHandler) handleListBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	branches, _, err := core.ListBranchInfo(ctx, h.client, cfg.RepoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing branches failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(branches, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	identities, err := h.client.ListIdentities(ctx, cfg.RepoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing authors failed: %v", err)), nil
	}
	if identities == nil {
		identities = []string{}
	}
	jsonData, _ := json.MarshalIndent(identities, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSummarizeCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	summary, err := core.BuildSummary(ctx, cfg, h.client, h.logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	if summary == "" {
		return mcp.NewToolResultText("No commits found for the given conditions."), nil
	}
	return mcp.NewToolResultText(summary), nil
}
