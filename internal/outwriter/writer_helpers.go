package outwriter

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/huangsam/gitreport/internal/contract"
)

//go:embed template.html
var pageTemplateText string

var pageTemplate = template.Must(template.New("page").Parse(pageTemplateText))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// WriteText writes content to path, creating parent directories. It returns
// the number of bytes written.
func WriteText(path, content string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("%w: cannot create directory for %s: %v", contract.ErrPersist, path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("%w: cannot write %s: %v", contract.ErrPersist, path, err)
	}
	return int64(len(content)), nil
}

// ToHTML converts Markdown to a standalone styled HTML page.
func ToHTML(title, source string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(source), &body); err != nil {
		return "", fmt.Errorf("%w: markdown conversion failed: %v", contract.ErrRender, err)
	}
	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("%w: html template failed: %v", contract.ErrRender, err)
	}
	return page.String(), nil
}

// ZipDir packs the md and html trees of runDir into runDir/{name}.zip.
// The run directory name is used when name is empty.
func ZipDir(runDir, name string) (string, error) {
	if name == "" {
		name = filepath.Base(filepath.Clean(runDir))
	}
	if !strings.HasSuffix(name, ".zip") {
		name += ".zip"
	}
	zipPath := filepath.Join(runDir, name)

	file, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("%w: cannot create archive %s: %v", contract.ErrPersist, zipPath, err)
	}
	defer func() { _ = file.Close() }()

	zw := zip.NewWriter(file)
	for _, sub := range []string{"html", "md"} {
		root := filepath.Join(runDir, sub)
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := addTree(zw, runDir, root); err != nil {
			_ = zw.Close()
			return "", fmt.Errorf("%w: cannot archive %s: %v", contract.ErrPersist, root, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("%w: cannot finish archive %s: %v", contract.ErrPersist, zipPath, err)
	}
	return zipPath, nil
}

// addTree adds every regular file under root, named relative to base.
func addTree(zw *zip.Writer, base, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		_, err = io.Copy(w, src)
		return err
	})
}
