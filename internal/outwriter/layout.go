package outwriter

import (
	"path"
	"path/filepath"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// DataDir is the run subdirectory holding columnar exports.
const DataDir = "data"

// Layout places documents of one run on disk.
// RunDir holds one directory per format; unless Flat, each format directory
// splits documents into summary, details and maven subdirectories.
type Layout struct {
	RunDir string
	Flat   bool
}

// NewLayout resolves the run directory. An explicit output directory wins over
// {reports-root}/{repo}/{YYYYMM}/{run-token}.
func NewLayout(cfg *contract.Config, n Naming) Layout {
	runDir := cfg.OutputDir
	if runDir == "" {
		runDir = filepath.Join(cfg.ReportsRoot, contract.Sanitize(n.Repo), n.Now.Format("200601"), n.RunToken())
	}
	return Layout{RunDir: runDir, Flat: cfg.FlatDir}
}

// subdir maps a report kind to its nested directory. The index has none.
func subdir(kind schema.ReportKind) string {
	switch kind {
	case schema.SummaryReport:
		return "summary"
	case schema.DetailReport:
		return "details"
	case schema.ModuleReport:
		return "maven"
	default:
		return ""
	}
}

// FormatDir returns the directory of one document format.
func (l Layout) FormatDir(format schema.OutputFormat) string {
	return filepath.Join(l.RunDir, format.Ext())
}

// Path returns where a document of the given kind and format is written.
func (l Layout) Path(kind schema.ReportKind, format schema.OutputFormat, fileName string) string {
	if sub := subdir(kind); sub != "" && !l.Flat {
		return filepath.Join(l.FormatDir(format), sub, fileName)
	}
	return filepath.Join(l.FormatDir(format), fileName)
}

// Link returns the link from the index of the same format to a document.
func (l Layout) Link(kind schema.ReportKind, fileName string) string {
	if sub := subdir(kind); sub != "" && !l.Flat {
		return path.Join(sub, fileName)
	}
	return fileName
}

// DataPath returns the path of a columnar export file.
func (l Layout) DataPath(fileName string) string {
	return filepath.Join(l.RunDir, DataDir, fileName)
}
