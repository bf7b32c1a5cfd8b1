package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/gitreport/core/daterange"
	"github.com/huangsam/gitreport/schema"
)

// Default values for configuration.
const (
	DefaultReportsRoot = "reports"
	DefaultTopFiles    = 10
)

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string
	RepoName string

	Range         schema.DateRange
	Shortcut      schema.DateShortcut
	DefaultWindow bool // Range was not supplied and covers the last 7 days

	Branch  string
	Authors []string

	ListBranches bool
	ListAuthors  bool

	Modules bool

	Format      schema.OutputFormat
	FlatDir     bool
	OutputName  string
	OutputDir   string
	ReportsRoot string
	Zip         bool
	ZipName     string
	Parquet     bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Verbose   bool
	UseColors bool

	// Now is the generation time shared by naming, layout and default windows.
	Now time.Time
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Verbose          bool   `mapstructure:"verbose"`
	Color            string `mapstructure:"color"`

	// --- Fields from reportCmd.Flags() ---
	Start        string   `mapstructure:"start"`
	End          string   `mapstructure:"end"`
	Date         string   `mapstructure:"date"`
	Output       string   `mapstructure:"output"`
	OutputDir    string   `mapstructure:"output-dir"`
	Branch       string   `mapstructure:"branch"`
	Authors      []string `mapstructure:"authors"`
	ListBranches bool     `mapstructure:"list-branches"`
	ListAuthors  bool     `mapstructure:"list-authors"`
	Maven        bool     `mapstructure:"maven"`
	Format       string   `mapstructure:"format"`
	FlatDir      bool     `mapstructure:"flat-dir"`
	Zip          bool     `mapstructure:"zip"`
	ZipName      string   `mapstructure:"zip-name"`
	ReportsRoot  string   `mapstructure:"reports-root"`
	Parquet      bool     `mapstructure:"parquet"`
}

// Clone creates a copy of the config so callers can override fields safely.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Authors = slices.Clone(c.Authors)
	return &clone
}

// ConfigParams returns the run parameters recorded alongside history entries.
func (c *Config) ConfigParams() map[string]any {
	params := map[string]any{
		"repo":     c.RepoName,
		"branch":   c.Branch,
		"authors":  c.Authors,
		"format":   string(c.Format),
		"modules":  c.Modules,
		"flat_dir": c.FlatDir,
	}
	if c.Shortcut != "" {
		params["date"] = string(c.Shortcut)
	}
	if c.Range.Start != nil {
		params["start"] = c.Range.Start.Format(time.RFC3339)
	}
	if c.Range.End != nil {
		params["end"] = c.Range.End.Format(time.RFC3339)
	}
	return params
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. cfg.Now must be set by the caller.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	return resolveGitPath(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: history-db-connect is required when using %s backend", ErrConfig, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("%w: MySQL connection string must contain '@tcp(' for host:port specification", ErrConfig)
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("%w: MySQL connection string must contain '/' followed by database name", ErrConfig)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: history-db-connect is required when using %s backend", ErrConfig, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'host=' parameter", ErrConfig)
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'dbname=' parameter", ErrConfig)
		}
	}
	return nil
}

// ParseBackend normalizes a backend name, treating an empty value as disabled.
func ParseBackend(raw string) (schema.DatabaseBackend, error) {
	if raw == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(raw))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("%w: invalid history backend '%s'. must be sqlite, mysql, postgresql, none", ErrConfig, raw)
	}
	return backend, nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs copies and checks the flags that need no external state.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	useColors, err := ParseBoolString(input.Color)
	if input.Color == "" {
		useColors, err = true, nil
	}
	if err != nil {
		return fmt.Errorf("%w: invalid --color value: %v", ErrConfig, err)
	}
	cfg.UseColors = useColors
	cfg.Verbose = input.Verbose

	cfg.Format = schema.OutputFormat(strings.ToLower(input.Format))
	if cfg.Format == "" {
		cfg.Format = schema.MarkdownFormat
	}
	if _, ok := schema.ValidOutputFormats[cfg.Format]; !ok {
		return fmt.Errorf("%w: invalid format '%s'. must be md, html, both", ErrConfig, input.Format)
	}

	cfg.Branch = strings.TrimSpace(input.Branch)
	cfg.Authors = cfg.Authors[:0]
	for _, a := range input.Authors {
		if a = strings.TrimSpace(a); a != "" {
			cfg.Authors = append(cfg.Authors, a)
		}
	}
	cfg.ListBranches = input.ListBranches
	cfg.ListAuthors = input.ListAuthors
	cfg.Modules = input.Maven
	cfg.FlatDir = input.FlatDir
	cfg.OutputName = strings.TrimSuffix(strings.TrimSpace(input.Output), ".md")
	cfg.OutputDir = input.OutputDir
	cfg.ReportsRoot = input.ReportsRoot
	if cfg.ReportsRoot == "" {
		cfg.ReportsRoot = DefaultReportsRoot
	}
	cfg.Zip = input.Zip || input.ZipName != ""
	cfg.ZipName = input.ZipName
	cfg.Parquet = input.Parquet
	return nil
}

// processDateRange resolves the shortcut or explicit days into cfg.Range.
// A shortcut takes precedence over explicit days.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	cfg.Shortcut = ""
	cfg.DefaultWindow = false
	if input.Date != "" {
		shortcut := schema.DateShortcut(strings.ToLower(input.Date))
		if _, ok := schema.ValidDateShortcuts[shortcut]; !ok {
			valid := slices.Sorted(maps.Keys(schema.ValidDateShortcuts))
			return fmt.Errorf("%w: invalid --date '%s'. must be one of %v", ErrConfig, input.Date, valid)
		}
		cfg.Shortcut = shortcut
		cfg.Range = daterange.Resolve(shortcut, cfg.Now)
		return nil
	}

	var r schema.DateRange
	if input.Start != "" {
		start, err := daterange.ParseDay(input.Start)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		r.Start = &start
	}
	if input.End != "" {
		end, err := daterange.ParseDayEnd(input.End)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		r.End = &end
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrConfig, input.Start, input.End)
	}
	if r.IsEmpty() {
		cfg.DefaultWindow = true
		r = daterange.Last(daterange.DefaultWindow, cfg.Now)
	}
	cfg.Range = r
	return nil
}

// resolveGitPath checks that the positional path exists and is a Git repository.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	repoPath := input.RepoPathStr
	if repoPath == "" {
		repoPath = "."
	}
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path %q: %v", ErrConfig, repoPath, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("%w: path %q does not exist", ErrConfig, repoPath)
	}
	root, err := client.GetRepoRoot(ctx, absPath)
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid Git repository: %v", ErrConfig, repoPath, err)
	}
	cfg.RepoPath = root
	cfg.RepoName = filepath.Base(filepath.Clean(root))
	return nil
}
