package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/gitreport/core/daterange"
	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// renderTable writes headers and rows as a console table.
func renderTable(w io.Writer, headers []string, rows [][]string, align tw.Align) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// PrintBranches writes the local branches, marking the current one.
func PrintBranches(w io.Writer, branches []schema.BranchInfo) error {
	rows := make([][]string, 0, len(branches))
	for _, b := range branches {
		marker := ""
		if b.Current {
			marker = "👉"
		}
		rows = append(rows, []string{marker, b.Name})
	}
	return renderTable(w, []string{"Current", "Branch"}, rows, tw.AlignLeft)
}

// PrintIdentities writes every "Name <email>" identity.
func PrintIdentities(w io.Writer, identities []string) error {
	rows := make([][]string, 0, len(identities))
	for i, id := range identities {
		rows = append(rows, []string{strconv.Itoa(i + 1), id})
	}
	return renderTable(w, []string{"#", "Author"}, rows, tw.AlignLeft)
}

// PrintGeneratedFiles writes the files produced by a run with their sizes.
func PrintGeneratedFiles(w io.Writer, files []schema.GeneratedFile) error {
	rows := make([][]string, 0, len(files))
	var total int64
	for _, f := range files {
		total += f.Size
		rows = append(rows, []string{string(f.Kind), f.Format, f.Path, humanize.Bytes(uint64(f.Size))})
	}
	if err := renderTable(w, []string{"Kind", "Format", "Path", "Size"}, rows, tw.AlignLeft); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Generated %s files (%s)\n", humanize.Comma(int64(len(files))), humanize.Bytes(uint64(total)))
	return err
}

// SearchConditions describes the branch, author and range filters of a run.
func SearchConditions(cfg *contract.Config) string {
	var conditions []string
	if cfg.Branch != "" {
		conditions = append(conditions, "Branch: "+cfg.Branch)
	}
	if len(cfg.Authors) > 0 {
		conditions = append(conditions, "Authors: "+strings.Join(cfg.Authors, ", "))
	}
	switch {
	case cfg.Shortcut != "":
		conditions = append(conditions, "Range: "+daterange.ShortcutLabel(cfg.Shortcut))
	case cfg.DefaultWindow:
		conditions = append(conditions, "Range: last 7 days")
	default:
		conditions = append(conditions, "Range: "+daterange.Label(cfg.Range))
	}
	return strings.Join(conditions, " | ")
}
