// Package core orchestrates report runs: it collects commits, folds them,
// renders the documents and hands them to the output writer.
package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitreport/core/agg"
	"github.com/huangsam/gitreport/core/classify"
	"github.com/huangsam/gitreport/core/collect"
	"github.com/huangsam/gitreport/core/daterange"
	"github.com/huangsam/gitreport/core/modules"
	"github.com/huangsam/gitreport/core/render"
	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/internal/outwriter"
	"github.com/huangsam/gitreport/internal/parquet"
	"github.com/huangsam/gitreport/schema"
)

// ExecuteReport generates every document of one run and returns the files
// written. An empty result set writes nothing and returns no error.
func ExecuteReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.HistoryStore, logger *logrus.Logger) ([]schema.GeneratedFile, error) {
	if logger == nil {
		logger = contract.NewDiscardLogger()
	}
	start := time.Now()

	if cfg.Branch != "" {
		if err := client.Checkout(ctx, cfg.RepoPath, cfg.Branch); err != nil {
			return nil, err
		}
		logger.WithField("branch", cfg.Branch).Debug("checked out branch")
	}

	contract.LogInfo("🔍 Search conditions: %s", outwriter.SearchConditions(cfg))

	collector := collect.NewCollector(client, logger)
	commits, err := collector.Collect(ctx, cfg.RepoPath, cfg.Range, cfg.Authors)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		contract.LogWarn("No commits found for the given conditions, nothing was written", nil)
		return nil, nil
	}

	data, err := BuildReportData(ctx, cfg, client, commits)
	if err != nil {
		return nil, err
	}

	naming := outwriter.NamingFromConfig(cfg)
	layout := outwriter.NewLayout(cfg, naming)
	ow := outwriter.NewOutWriter(layout, naming, cfg.Format, logger)

	if err := writeDocuments(ow, data); err != nil {
		return nil, err
	}
	if cfg.Parquet {
		if err := exportParquet(ow, commits); err != nil {
			return nil, err
		}
	}
	if cfg.Zip {
		if _, err := ow.Zip(cfg.ZipName); err != nil {
			return nil, err
		}
	}

	recordHistory(store, cfg, naming, layout, data, start, logger)

	logger.WithFields(logrus.Fields{
		"run_dir":  layout.RunDir,
		"files":    len(ow.Files()),
		"duration": time.Since(start).String(),
	}).Debug("report run complete")
	return ow.Files(), nil
}

// BuildReportData folds collected commits into report data, discovering
// modules first when the config asks for them.
func BuildReportData(ctx context.Context, cfg *contract.Config, client contract.GitClient, commits []schema.CommitRecord) (schema.ReportData, error) {
	repo, err := RepoInfo(ctx, cfg, client)
	if err != nil {
		return schema.ReportData{}, err
	}

	var locator agg.Locator
	var found []schema.ModuleInfo
	if cfg.Modules {
		table, err := modules.Discover(cfg.RepoPath, classify.Descriptor)
		if err != nil {
			return schema.ReportData{}, fmt.Errorf("%w: %v", contract.ErrPersist, err)
		}
		if table.Len() == 0 {
			contract.LogWarn("No "+classify.Descriptor+" found, skipping the module report", nil)
		} else {
			locator = table
			found = table.Modules()
		}
	}

	return agg.Build(repo, commits, locator, found, contract.DefaultTopFiles), nil
}

// RepoInfo gathers the repository metadata shown at the top of reports.
func RepoInfo(ctx context.Context, cfg *contract.Config, client contract.GitClient) (schema.RepoInfo, error) {
	branches, current, err := ListBranchInfo(ctx, client, cfg.RepoPath)
	if err != nil {
		return schema.RepoInfo{}, err
	}
	return schema.RepoInfo{
		Name:        cfg.RepoName,
		Path:        cfg.RepoPath,
		Branch:      current,
		Branches:    branches,
		RangeLabel:  RangeLabel(cfg),
		Authors:     cfg.Authors,
		GeneratedAt: cfg.Now,
	}, nil
}

// RangeLabel describes the configured date range for report headers.
func RangeLabel(cfg *contract.Config) string {
	switch {
	case cfg.Shortcut != "":
		return daterange.ShortcutLabel(cfg.Shortcut)
	case cfg.DefaultWindow:
		return "last 7 days"
	default:
		return daterange.Label(cfg.Range)
	}
}

// ListBranchInfo returns the local branches with the checked out one marked,
// plus the name of the checked out branch.
func ListBranchInfo(ctx context.Context, client contract.GitClient, repoPath string) ([]schema.BranchInfo, string, error) {
	names, err := client.ListBranches(ctx, repoPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list branches: %w", err)
	}
	current, err := client.CurrentBranch(ctx, repoPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	branches := make([]schema.BranchInfo, 0, len(names))
	for _, name := range names {
		branches = append(branches, schema.BranchInfo{Name: name, Current: name == current})
	}
	return branches, current, nil
}

// ExecuteListBranches prints the local branches to w.
func ExecuteListBranches(ctx context.Context, cfg *contract.Config, client contract.GitClient, w io.Writer) error {
	branches, _, err := ListBranchInfo(ctx, client, cfg.RepoPath)
	if err != nil {
		return err
	}
	return outwriter.PrintBranches(w, branches)
}

// ExecuteListAuthors prints every author identity to w.
func ExecuteListAuthors(ctx context.Context, cfg *contract.Config, client contract.GitClient, w io.Writer) error {
	identities, err := client.ListIdentities(ctx, cfg.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to list authors: %w", err)
	}
	return outwriter.PrintIdentities(w, identities)
}

// BuildSummary renders the summary report for cfg without touching the
// working tree or the filesystem. An empty result set yields an empty string.
func BuildSummary(ctx context.Context, cfg *contract.Config, client contract.GitClient, logger *logrus.Logger) (string, error) {
	collector := collect.NewCollector(client, logger)
	collector.Quiet = true
	commits, err := collector.Collect(ctx, cfg.RepoPath, cfg.Range, cfg.Authors)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", nil
	}
	data, err := BuildReportData(ctx, cfg, client, commits)
	if err != nil {
		return "", err
	}
	return render.Summary(data), nil
}

// writeDocuments writes the summary, detail and module reports in every
// format, then one index per format linking them.
func writeDocuments(ow *outwriter.OutWriter, data schema.ReportData) error {
	repo := data.Repo.Name
	if err := ow.WriteReport(schema.SummaryReport, "Git Commit Summary - "+repo, render.Summary(data)); err != nil {
		return err
	}
	if err := ow.WriteReport(schema.DetailReport, "Git Commit Report - "+repo, render.Detail(data)); err != nil {
		return err
	}
	if data.HasModules() {
		if err := ow.WriteReport(schema.ModuleReport, "Module Report - "+repo, render.ModuleReport(data)); err != nil {
			return err
		}
	}

	for _, format := range ow.Formats {
		links := render.IndexLinks{
			Summary: ow.Link(schema.SummaryReport, format),
			Detail:  ow.Link(schema.DetailReport, format),
		}
		if data.HasModules() {
			links.Module = ow.Link(schema.ModuleReport, format)
		}
		if err := ow.WriteDocument(schema.IndexReport, format, "Git Commit Analysis - "+repo, render.Index(data.Repo, links)); err != nil {
			return err
		}
	}
	return nil
}

// exportParquet writes the commit and file-change tables into the run's data directory.
func exportParquet(ow *outwriter.OutWriter, commits []schema.CommitRecord) error {
	dir := ow.Layout.DataPath("")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", contract.ErrPersist, dir, err)
	}

	base := ow.Naming.Base()
	exports := []struct {
		path  string
		write func(string) error
	}{
		{ow.Layout.DataPath("commits-" + base + ".parquet"), func(p string) error {
			return parquet.WriteCommits(commits, p)
		}},
		{ow.Layout.DataPath("file_changes-" + base + ".parquet"), func(p string) error {
			return parquet.WriteFileChanges(commits, classify.FileType, p)
		}},
	}
	for _, e := range exports {
		if err := e.write(e.path); err != nil {
			return fmt.Errorf("%w: %s: %v", contract.ErrPersist, filepath.Base(e.path), err)
		}
		var size int64
		if info, err := os.Stat(e.path); err == nil {
			size = info.Size()
		}
		ow.Track(schema.DataFile, "parquet", e.path, size)
	}
	return nil
}

// recordHistory stores the run in the history store. Failures only warn:
// the reports are already on disk.
func recordHistory(store contract.HistoryStore, cfg *contract.Config, naming outwriter.Naming, layout outwriter.Layout, data schema.ReportData, start time.Time, logger *logrus.Logger) {
	if store == nil {
		return
	}
	run := schema.RunRecord{
		RepoName:   cfg.RepoName,
		Branch:     data.Repo.Branch,
		RangeLabel: naming.RangeToken(),
		OutputDir:  layout.RunDir,
	}
	runID, err := store.BeginRun(start, run, cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("Failed to record run history", err)
		return
	}
	if err := store.RecordAuthorTotals(runID, data.Authors); err != nil {
		contract.LogWarn("Failed to record author totals", err)
	}
	if err := store.EndRun(runID, time.Now(), data.Totals); err != nil {
		contract.LogWarn("Failed to finish run history", err)
		return
	}
	logger.WithField("run_id", runID).Debug("recorded run history")
}
