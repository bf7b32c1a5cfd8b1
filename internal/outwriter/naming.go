package outwriter

import (
	"strings"
	"time"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

const (
	stampLayout = "20060102_150405"
	dayToken    = "20060102"
)

// Naming holds everything that goes into report file and run directory names.
type Naming struct {
	Repo          string
	Branch        string
	Authors       []string
	Range         schema.DateRange
	Shortcut      schema.DateShortcut
	DefaultWindow bool
	OutputName    string
	Now           time.Time
}

// NamingFromConfig builds the naming inputs of a validated config.
func NamingFromConfig(cfg *contract.Config) Naming {
	return Naming{
		Repo:          cfg.RepoName,
		Branch:        cfg.Branch,
		Authors:       cfg.Authors,
		Range:         cfg.Range,
		Shortcut:      cfg.Shortcut,
		DefaultWindow: cfg.DefaultWindow,
		OutputName:    cfg.OutputName,
		Now:           cfg.Now,
	}
}

// RangeToken identifies the date range inside file names.
func (n Naming) RangeToken() string {
	switch {
	case n.Shortcut != "":
		return string(n.Shortcut)
	case n.DefaultWindow || n.Range.IsEmpty():
		return "last_7_days"
	case n.Range.Start != nil && n.Range.End != nil:
		return n.Range.Start.Format(dayToken) + "-" + n.Range.End.Format(dayToken)
	case n.Range.Start != nil:
		return "from_" + n.Range.Start.Format(dayToken)
	default:
		return "until_" + n.Range.End.Format(dayToken)
	}
}

// Base returns the part of a file name that follows "{kind}-", without extension.
func (n Naming) Base() string {
	if n.OutputName != "" {
		return contract.Sanitize(n.OutputName)
	}
	parts := []string{contract.Sanitize(n.Repo)}
	if n.Branch != "" {
		parts = append(parts, "branch_"+contract.Sanitize(n.Branch))
	}
	switch len(n.Authors) {
	case 0:
	case 1:
		parts = append(parts, "author_"+contract.Sanitize(n.Authors[0]))
	default:
		names := make([]string, len(n.Authors))
		for i, a := range n.Authors {
			names[i] = contract.Sanitize(a)
		}
		parts = append(parts, "authors_"+strings.Join(names, "-"))
	}
	parts = append(parts, n.RangeToken(), n.Now.Format(stampLayout))
	return strings.Join(parts, "-")
}

// FileName returns the document name for a report kind and format.
func (n Naming) FileName(kind schema.ReportKind, format schema.OutputFormat) string {
	return string(kind) + "-" + n.Base() + "." + format.Ext()
}

// RunToken names the run directory: [branch_][range_]timestamp.
// The range part is omitted for the default window.
func (n Naming) RunToken() string {
	var parts []string
	if n.Branch != "" {
		parts = append(parts, contract.Sanitize(n.Branch))
	}
	if !n.DefaultWindow {
		switch {
		case n.Range.Start != nil && n.Range.End != nil:
			parts = append(parts, n.Range.Start.Format(dayToken)+"-"+n.Range.End.Format(dayToken))
		case n.Range.Start != nil:
			parts = append(parts, n.Range.Start.Format(dayToken))
		case n.Range.End != nil:
			parts = append(parts, n.Range.End.Format(dayToken))
		}
	}
	parts = append(parts, n.Now.Format(stampLayout))
	return strings.Join(parts, "_")
}
