package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/huangsam/gitreport/core"
	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/internal/outwriter"
)

// reportCmd generates the report set for one repository and window.
var reportCmd = &cobra.Command{
	Use:   "report [repo-path]",
	Short: "Generate commit summary, detail and module reports",
	Long: `Collect the commits of a repository over a date window and write the
summary, detail and optional Maven module reports plus an index linking them.

Without --start, --end or --date the window covers the last 7 days.
A date shortcut takes precedence over explicit days.

Examples:
  # Last week's activity as Markdown and HTML
  gitreport report --date lastweek -f both

  # One author on a feature branch, packaged as a zip
  gitreport report ../service -b develop -a alice --zip

  # Module breakdown for a Maven repository
  gitreport report --start 2024-01-01 --end 2024-01-31 -m`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runReport(cmd.OutOrStdout()); err != nil {
			contract.LogFatal(failureMessage(err), err)
		}
	},
}

// runReport dispatches the list modes or writes a full report set.
func runReport(w io.Writer) error {
	switch {
	case cfg.ListBranches:
		return core.ExecuteListBranches(rootCtx, cfg, gitClient, w)
	case cfg.ListAuthors:
		return core.ExecuteListAuthors(rootCtx, cfg, gitClient, w)
	}

	store := openHistoryStore()
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	files, err := core.ExecuteReport(rootCtx, cfg, gitClient, store, logger)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	return outwriter.PrintGeneratedFiles(w, files)
}

// branchesCmd lists local branches.
var branchesCmd = &cobra.Command{
	Use:     "branches [repo-path]",
	Short:   "List local branches, marking the checked out one",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := core.ExecuteListBranches(rootCtx, cfg, gitClient, cmd.OutOrStdout()); err != nil {
			contract.LogFatal(failureMessage(err), err)
		}
	},
}

// authorsCmd lists author identities.
var authorsCmd = &cobra.Command{
	Use:     "authors [repo-path]",
	Short:   "List every author identity as Name <email>",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := core.ExecuteListAuthors(rootCtx, cfg, gitClient, cmd.OutOrStdout()); err != nil {
			contract.LogFatal(failureMessage(err), err)
		}
	},
}
