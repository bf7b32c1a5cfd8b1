package schema

// Custom string types for type safety.
type (
	// DateShortcut represents a named relative date window.
	DateShortcut string

	// OutputFormat represents the document formats written to disk.
	OutputFormat string

	// ReportKind represents the kind of document being rendered.
	ReportKind string

	// ImpactCategory represents a module-impact classification bucket.
	ImpactCategory string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All date shortcuts supported.
const (
	Today     DateShortcut = "today"
	Yesterday DateShortcut = "yesterday"
	ThisWeek  DateShortcut = "thisweek"
	LastWeek  DateShortcut = "lastweek"
	ThisMonth DateShortcut = "thismonth"
	LastMonth DateShortcut = "lastmonth"
)

// All output formats supported.
const (
	MarkdownFormat OutputFormat = "md" // default
	HTMLFormat     OutputFormat = "html"
	BothFormat     OutputFormat = "both"
)

// All report kinds written to disk.
const (
	SummaryReport ReportKind = "summary"
	DetailReport  ReportKind = "detail"
	ModuleReport  ReportKind = "maven"
	IndexReport   ReportKind = "index"
	DataFile      ReportKind = "data"
	ArchiveFile   ReportKind = "archive"
)

// Module impact categories, in display order.
const (
	DescriptorImpact ImpactCategory = "pom"
	SQLImpact        ImpactCategory = "sql"
	SourceImpact     ImpactCategory = "source"
	ConfigImpact     ImpactCategory = "config"
	ScriptImpact     ImpactCategory = "script"
	TestImpact       ImpactCategory = "test"
	ResourceImpact   ImpactCategory = "resource"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// AllDateShortcuts returns the shortcuts in the order they are documented.
var AllDateShortcuts = []DateShortcut{Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth}

// AllImpactCategories returns the impact categories in display order.
var AllImpactCategories = []ImpactCategory{
	DescriptorImpact, SQLImpact, SourceImpact, ConfigImpact, ScriptImpact, TestImpact, ResourceImpact,
}

// ValidDateShortcuts lists all valid date shortcuts.
var ValidDateShortcuts = map[DateShortcut]struct{}{
	Today:     {},
	Yesterday: {},
	ThisWeek:  {},
	LastWeek:  {},
	ThisMonth: {},
	LastMonth: {},
}

// ValidOutputFormats lists all valid output formats.
var ValidOutputFormats = map[OutputFormat]struct{}{
	MarkdownFormat: {},
	HTMLFormat:     {},
	BothFormat:     {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Formats expands an output format into the concrete document formats it produces.
func (f OutputFormat) Formats() []OutputFormat {
	switch f {
	case HTMLFormat:
		return []OutputFormat{HTMLFormat}
	case BothFormat:
		return []OutputFormat{MarkdownFormat, HTMLFormat}
	default:
		return []OutputFormat{MarkdownFormat}
	}
}

// Ext returns the file extension used for documents in this format.
func (f OutputFormat) Ext() string {
	if f == HTMLFormat {
		return "html"
	}
	return "md"
}

// Label returns the column header used for a category in the impact overview.
func (c ImpactCategory) Label() string {
	switch c {
	case DescriptorImpact:
		return "POM"
	case SQLImpact:
		return "SQL"
	case SourceImpact:
		return "Source"
	case ConfigImpact:
		return "Config"
	case ScriptImpact:
		return "Script"
	case TestImpact:
		return "Test"
	case ResourceImpact:
		return "Resource"
	default:
		return string(c)
	}
}
