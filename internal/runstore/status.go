package runstore

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/huangsam/gitreport/schema"
)

const timeLayout = "2006-01-02 15:04:05"

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %s\n", humanize.Comma(int64(status.TotalRuns)))
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s (%s)\n", status.LastRunTime.Format(timeLayout), humanize.Time(status.LastRunTime))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(timeLayout))
		_, _ = fmt.Fprintf(w, "Total Commits Reported: %s\n", humanize.Comma(int64(status.TotalCommits)))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintRuns writes stored runs as a table, newest last.
func PrintRuns(w io.Writer, runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Repo", "Branch", "Range", "Started", "Duration", "Commits", "Authors", "+/-"})

	data := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if r.DurationMs != nil {
			duration = strconv.FormatInt(*r.DurationMs, 10) + "ms"
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.RepoName,
			r.Branch,
			r.RangeLabel,
			r.StartTime.Local().Format(timeLayout),
			duration,
			humanize.Comma(int64(r.TotalCommits)),
			strconv.Itoa(r.TotalAuthors),
			fmt.Sprintf("+%d/-%d", r.Insertions, r.Deletions),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
