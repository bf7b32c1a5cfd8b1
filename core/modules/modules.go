// Package modules discovers build modules in a working tree and maps changed
// paths to the nearest enclosing module.
package modules

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/huangsam/gitreport/schema"
)

// Table maps normalized slash-separated module directories to modules.
// The repository root registers under "".
type Table struct {
	byPath map[string]schema.ModuleInfo
}

// NewTable builds a table from already known modules.
func NewTable(modules []schema.ModuleInfo) Table {
	t := Table{byPath: make(map[string]schema.ModuleInfo, len(modules))}
	for _, m := range modules {
		m.Path = normalize(m.Path)
		t.byPath[m.Path] = m
	}
	return t
}

// Len returns the number of registered modules.
func (t Table) Len() int {
	return len(t.byPath)
}

// Modules returns the registered modules sorted by path, root first.
func (t Table) Modules() []schema.ModuleInfo {
	out := make([]schema.ModuleInfo, 0, len(t.byPath))
	for _, m := range t.byPath {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

// Locate returns the nearest module enclosing filePath. It starts at the file's
// directory, strips one trailing segment at a time and finally tries the root.
func (t Table) Locate(filePath string) (schema.ModuleInfo, bool) {
	dir := path.Dir(normalize(filePath))
	for dir != "." && dir != "/" && dir != "" {
		if m, ok := t.byPath[dir]; ok {
			return m, true
		}
		dir = path.Dir(dir)
	}
	m, ok := t.byPath[""]
	return m, ok
}

// Discover walks root and registers every directory holding a file named
// descriptor. Hidden directories and paths ignored by the root .gitignore are
// skipped. The root module, when present, takes the name of the root directory.
func Discover(root, descriptor string) (Table, error) {
	gi := loadGitignore(root)
	var found []schema.ModuleInfo

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			return nil // unreadable subtrees are skipped
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		} else {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
		}

		if info, statErr := os.Stat(filepath.Join(p, descriptor)); statErr == nil && !info.IsDir() {
			name := d.Name()
			if rel == "" {
				name = filepath.Base(filepath.Clean(root))
			}
			found = append(found, schema.ModuleInfo{Name: name, Path: rel})
		}
		return nil
	})
	if err != nil {
		return Table{}, fmt.Errorf("failed to discover modules in %q: %w", root, err)
	}
	return NewTable(found), nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// normalize converts a path to the slash-separated, cleaned form used as key.
func normalize(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	if p == "." || p == "/" {
		return ""
	}
	return strings.TrimPrefix(p, "./")
}
