// Package outwriter has output and writer logic: file naming, the on-disk
// layout of a run, Markdown and HTML documents, archives and console tables.
package outwriter

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// OutWriter persists the documents of one report run and remembers every
// file it produced.
type OutWriter struct {
	Layout  Layout
	Naming  Naming
	Formats []schema.OutputFormat

	logger *logrus.Logger
	files  []schema.GeneratedFile
}

// NewOutWriter creates a writer for the formats expanded from format.
func NewOutWriter(layout Layout, naming Naming, format schema.OutputFormat, logger *logrus.Logger) *OutWriter {
	if logger == nil {
		logger = contract.NewDiscardLogger()
	}
	return &OutWriter{Layout: layout, Naming: naming, Formats: format.Formats(), logger: logger}
}

// WriteReport writes one Markdown document in every configured format.
func (ow *OutWriter) WriteReport(kind schema.ReportKind, title, markdown string) error {
	for _, format := range ow.Formats {
		if err := ow.WriteDocument(kind, format, title, markdown); err != nil {
			return err
		}
	}
	return nil
}

// WriteDocument writes one document in one format. A failed HTML conversion
// is reported as a warning and the HTML file is skipped.
func (ow *OutWriter) WriteDocument(kind schema.ReportKind, format schema.OutputFormat, title, markdown string) error {
	content := markdown
	if format == schema.HTMLFormat {
		html, err := ToHTML(title, markdown)
		if err != nil {
			contract.LogWarn("Skipping HTML "+string(kind)+" report", err)
			return nil
		}
		content = html
	}

	fileName := ow.Naming.FileName(kind, format)
	path := ow.Layout.Path(kind, format, fileName)
	size, err := WriteText(path, content)
	if err != nil {
		return err
	}
	ow.logger.WithFields(logrus.Fields{"kind": kind, "format": format, "path": path}).Debug("wrote document")
	ow.Track(kind, string(format), path, size)
	return nil
}

// Link returns the relative link from the index of format to a document of kind.
func (ow *OutWriter) Link(kind schema.ReportKind, format schema.OutputFormat) string {
	return ow.Layout.Link(kind, ow.Naming.FileName(kind, format))
}

// Zip packs the run into an archive inside the run directory.
func (ow *OutWriter) Zip(name string) (string, error) {
	path, err := ZipDir(ow.Layout.RunDir, name)
	if err != nil {
		return "", err
	}
	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}
	ow.Track(schema.ArchiveFile, "zip", path, size)
	return path, nil
}

// Track records a file written outside WriteDocument.
func (ow *OutWriter) Track(kind schema.ReportKind, format, path string, size int64) {
	ow.files = append(ow.files, schema.GeneratedFile{Kind: kind, Format: format, Path: path, Size: size})
}

// Files returns the files written so far, in write order.
func (ow *OutWriter) Files() []schema.GeneratedFile {
	return ow.files
}
