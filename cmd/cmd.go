// Package cmd defines the command-line interface for gitreport.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details to stderr")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().String("start", "", "First day to include (YYYY-MM-DD)")
	reportCmd.Flags().String("end", "", "Last day to include (YYYY-MM-DD)")
	reportCmd.Flags().String("date", "", "Date shortcut: today, yesterday, thisweek, lastweek, thismonth, lastmonth")
	reportCmd.Flags().StringP("output", "o", "", "Custom name used in place of the generated file name")
	reportCmd.Flags().StringP("output-dir", "d", "", "Directory that replaces the generated run directory")
	reportCmd.Flags().StringP("branch", "b", "", "Branch to check out before collecting")
	reportCmd.Flags().StringSliceP("authors", "a", nil, "Author name or email to include (repeatable)")
	reportCmd.Flags().Bool("list-branches", false, "List local branches and exit")
	reportCmd.Flags().Bool("list-authors", false, "List author identities and exit")
	reportCmd.Flags().BoolP("maven", "m", false, "Discover Maven modules and write the module report")
	reportCmd.Flags().StringP("format", "f", string(schema.MarkdownFormat), "Output format: md or html or both")
	reportCmd.Flags().Bool("flat-dir", true, "Write reports without summary/details/maven subdirectories")
	reportCmd.Flags().Bool("zip", false, "Package the generated reports into a zip archive")
	reportCmd.Flags().String("zip-name", "", "Archive name (implies --zip)")
	reportCmd.Flags().String("reports-root", contract.DefaultReportsRoot, "Root directory for generated run directories")
	reportCmd.Flags().Bool("parquet", false, "Also export commits and file changes to Parquet")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	historyExportCmd.Flags().String("output-file", "", "Directory to write runs.parquet and author_totals.parquet into")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}

	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
