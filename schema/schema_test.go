package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommitRecord_SubjectAndShortHash(t *testing.T) {
	tests := []struct {
		name    string
		commit  CommitRecord
		subject string
		short   string
	}{
		{"multi line", CommitRecord{Hash: "0123456789abcdef", Message: "Fix login\n\nDetails"}, "Fix login", "01234567"},
		{"single line", CommitRecord{Hash: "abc", Message: "Docs"}, "Docs", "abc"},
		{"empty", CommitRecord{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.subject, tt.commit.Subject())
			assert.Equal(t, tt.short, tt.commit.ShortHash())
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC)

	bounded := DateRange{Start: &start, End: &end}
	assert.True(t, bounded.Contains(start))
	assert.True(t, bounded.Contains(end))
	assert.False(t, bounded.Contains(start.Add(-time.Second)))
	assert.False(t, bounded.Contains(end.Add(time.Second)))

	open := DateRange{}
	assert.True(t, open.IsEmpty())
	assert.True(t, open.Contains(time.Time{}))
	assert.True(t, DateRange{Start: &start}.Contains(end.AddDate(5, 0, 0)))
}

func TestOutputFormat(t *testing.T) {
	assert.Equal(t, []OutputFormat{MarkdownFormat}, MarkdownFormat.Formats())
	assert.Equal(t, []OutputFormat{HTMLFormat}, HTMLFormat.Formats())
	assert.Equal(t, []OutputFormat{MarkdownFormat, HTMLFormat}, BothFormat.Formats())
	assert.Equal(t, "md", MarkdownFormat.Ext())
	assert.Equal(t, "html", HTMLFormat.Ext())
}

func TestModuleImpact_Counts(t *testing.T) {
	impact := ModuleImpact{Categories: map[ImpactCategory][]string{
		SourceImpact: {"a/App.java", "a/Svc.java"},
		TestImpact:   {"a/AppTest.java"},
	}}
	assert.Equal(t, 2, impact.Count(SourceImpact))
	assert.Equal(t, 0, impact.Count(SQLImpact))
	assert.Equal(t, 3, impact.Total())
	assert.Equal(t, "POM", DescriptorImpact.Label())
	assert.Len(t, AllImpactCategories, 7)
}
