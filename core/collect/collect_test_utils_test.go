package collect

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitreport/internal/contract"
)

// logScenario represents a single commit for test log generation.
type logScenario struct {
	hash    string
	name    string
	email   string
	date    time.Time
	message string
	files   []numstat
}

// numstat represents a single numstat line. Negative counts render as "-".
type numstat struct {
	path      string
	additions int
	deletions int
}

func formatCount(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprint(n)
}

// generateTestLog renders scenarios in the format produced by GetCommitLog.
func generateTestLog(scenarios []logScenario) []byte {
	var b strings.Builder
	for i, s := range scenarios {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(contract.LogRecordSep)
		b.WriteString(strings.Join([]string{
			s.hash, s.name, s.email, fmt.Sprint(s.date.Unix()), s.message + "\n", "",
		}, contract.LogFieldSep))
		if len(s.files) > 0 {
			b.WriteString("\n")
		}
		for _, f := range s.files {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", formatCount(f.additions), formatCount(f.deletions), f.path)
		}
	}
	return []byte(b.String())
}

var baseTime = time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

// sampleScenarios returns three commits by two authors, newest first.
func sampleScenarios() []logScenario {
	return []logScenario{
		{
			hash: "cccccccccccccccccccccccccccccccccccccccc", name: "Bob", email: "bob@example.com",
			date: baseTime.Add(48 * time.Hour), message: "Fix build\n\nDetails here",
			files: []numstat{{"pom.xml", 2, 1}, {"logo.png", -1, -1}},
		},
		{
			hash: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", name: "Alice B", email: "a@x.com",
			date: baseTime.Add(24 * time.Hour), message: "Add service",
			files: []numstat{{"api/src/main/java/Service.java", 40, 0}},
		},
		{
			hash: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", name: "Alice", email: "a@x.com",
			date: baseTime, message: "Initial commit",
			files: []numstat{{"README.md", 10, 0}, {"docs/a b.md", 3, 2}},
		},
	}
}
