package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/gitreport/core"
	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/internal/runstore"
	"github.com/huangsam/gitreport/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is rebuilt in the persistent pre-run once --verbose is known.
var logger = contract.NewDiscardLogger()

// gitClient talks to the local git executable.
var gitClient contract.GitClient = contract.NewLocalGitClient()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "gitreport",
	Short: "Summarize Git commit activity into Markdown and HTML reports.",
	Long: `Gitreport scans a repository's commit history over a date window and
writes per-author, per-file-type and per-module reports with an index linking them.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		logger = contract.NewLogger(viper.GetBool("verbose"))
		useColors, err := contract.ParseBoolString(viper.GetString("color"))
		contract.ConfigureColors(err != nil || useColors)
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".gitreport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("GITREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("format", string(schema.MarkdownFormat))
	viper.SetDefault("flat-dir", true)
	viper.SetDefault("reports-root", contract.DefaultReportsRoot)
	viper.SetDefault("history-backend", "")
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// loadConfigFile reads the config file when one exists.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: error reading config file: %v", contract.ErrConfig, err)
		}
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("%w: unable to unmarshal config: %v", contract.ErrConfig, err)
	}

	// Positional arguments are not handled by Viper.
	if len(args) == 1 {
		input.RepoPathStr = args[0]
	} else {
		input.RepoPathStr = "."
	}

	cfg.Now = time.Now()
	if err := contract.ProcessAndValidate(ctx, cfg, gitClient, input); err != nil {
		return err
	}
	contract.ConfigureColors(cfg.UseColors)

	logger.WithFields(logrus.Fields{
		"repo":   cfg.RepoPath,
		"format": cfg.Format,
		"range":  core.RangeLabel(cfg),
	}).Debug("configuration resolved")
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// historySetup resolves only the history flags, without a repository.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// openHistoryStore opens the configured history store. A store that cannot
// be opened is reported and skipped so the reports still get written.
func openHistoryStore() contract.HistoryStore {
	store, err := runstore.NewHistoryStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogWarn("Run history disabled", err)
		return nil
	}
	return store
}

// failureMessage picks the headline for a failed command from the error class.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, contract.ErrBranchNotFound):
		return "Branch not found"
	case errors.Is(err, contract.ErrConfig):
		return "Invalid configuration"
	case errors.Is(err, contract.ErrBackend):
		return "Git command failed"
	case errors.Is(err, contract.ErrRender):
		return "Failed to render report"
	case errors.Is(err, contract.ErrPersist):
		return "Failed to write reports"
	default:
		return "Report failed"
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
