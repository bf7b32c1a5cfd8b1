package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/internal/parquet"
	"github.com/huangsam/gitreport/internal/runstore"
	"github.com/huangsam/gitreport/schema"
)

// historyCmd groups the run history subcommands.
//
// History subcommands use historySetup instead of sharedSetup, so they work
// outside of a Git repository.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the recorded report runs",
	Long: `Manage the history of report runs.

When a history backend is configured, every report run stores:
- Run metadata (repository, branch, range, duration, configuration)
- Totals of the run (commits, authors, files, lines)
- Per-author totals

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Examples:
  # Check tracking status
  gitreport history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  gitreport history export --history-backend sqlite --output-file history`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and recorded runs",
	PreRunE: historySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		store, err := runstore.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open run history", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		runstore.PrintHistoryStatus(cmd.OutOrStdout(), status)

		runs, err := store.GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if len(runs) > 0 {
			if err := runstore.PrintRuns(cmd.OutOrStdout(), runs); err != nil {
				contract.LogFatal("Failed to print runs", err)
			}
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all stored runs and per-author totals.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := runstore.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open run history", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		contract.LogSuccess("Run history cleared successfully.")
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet",
	Long: `Export all stored runs and per-author totals to Parquet.

Writes runs.parquet and author_totals.parquet into the --output-file directory.

Examples:
  gitreport history export --output-file history
  duckdb -c "SELECT * FROM read_parquet('history/runs.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		outDir := viper.GetString("output-file")
		if outDir == "" {
			contract.LogFatal("Invalid configuration", fmt.Errorf("%w: --output-file is required", contract.ErrConfig))
		}
		store, err := runstore.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open run history", err)
		}
		defer func() { _ = store.Close() }()

		if err := exportHistory(store, outDir); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// exportHistory writes the stored runs and author totals under outDir.
func exportHistory(store contract.HistoryStore, outDir string) error {
	runs, err := store.GetAllRuns()
	if err != nil {
		return err
	}
	totals, err := store.GetAllAuthorTotals()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", contract.ErrPersist, outDir, err)
	}

	runsPath := filepath.Join(outDir, "runs.parquet")
	if err := parquet.WriteRuns(runs, runsPath); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrPersist, err)
	}
	totalsPath := filepath.Join(outDir, "author_totals.parquet")
	if err := parquet.WriteAuthorTotals(totals, totalsPath); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrPersist, err)
	}

	contract.LogSuccess("Exported %d runs to %s", len(runs), runsPath)
	contract.LogSuccess("Exported %d author totals to %s", len(totals), totalsPath)
	return nil
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gitreport history migrate --history-backend sqlite

  # Rollback to initial state
  gitreport history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend && connStr == "" {
			connStr = contract.GetHistoryDBFilePath()
		}
		if err := runstore.Migrate(cfg.HistoryBackend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
