// Package collect enumerates commits from the version-control backend and
// filters them by date range and author.
package collect

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// Match pairs an author filter token with the author name it resolved to.
type Match struct {
	Token string
	Name  string
}

// Collector reads commits through a GitClient.
type Collector struct {
	client contract.GitClient
	logger *logrus.Logger

	// Quiet suppresses the author-match and count lines on stderr.
	Quiet bool
}

// NewCollector creates a collector backed by client.
func NewCollector(client contract.GitClient, logger *logrus.Logger) *Collector {
	if logger == nil {
		logger = contract.NewDiscardLogger()
	}
	return &Collector{client: client, logger: logger}
}

// Collect returns the commits reachable from HEAD, in backend order, whose
// timestamp lies in r and, when tokens are given, whose author name is one of
// the names resolved from tokens by ResolveAuthors.
func (c *Collector) Collect(ctx context.Context, repoPath string, r schema.DateRange, tokens []string) ([]schema.CommitRecord, error) {
	var names map[string]struct{}
	if len(tokens) > 0 {
		identities, err := c.client.ListIdentities(ctx, repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list authors: %w", err)
		}
		var matches []Match
		names, matches = resolve(identities, tokens)
		c.reportMatches(matches)
	}

	raw, err := c.client.GetCommitLog(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}
	all, err := ParseLog(raw)
	if err != nil {
		return nil, err
	}

	var kept []schema.CommitRecord
	for _, commit := range all {
		if !r.Contains(commit.Timestamp) {
			continue
		}
		if names != nil {
			if _, ok := names[commit.AuthorName]; !ok {
				continue
			}
		}
		kept = append(kept, commit)
	}

	c.logger.WithFields(logrus.Fields{
		"repo":    repoPath,
		"scanned": len(all),
		"kept":    len(kept),
	}).Debug("collected commits")
	if !c.Quiet {
		contract.LogInfo("🔎 Commits scanned: %d, matched in range: %d", len(all), len(kept))
	}
	return kept, nil
}

func (c *Collector) reportMatches(matches []Match) {
	if c.Quiet {
		return
	}
	if len(matches) == 0 {
		contract.LogWarn("No matching authors found", nil)
		return
	}
	for _, m := range matches {
		contract.LogSuccess("✓ Matched: %s -> %s", m.Token, m.Name)
	}
}

// ResolveAuthors maps filter tokens to author names. A token matches an
// identity when it is a case-insensitive substring of "Name <email>"; the
// name part of every matching identity is returned. Commits are later kept
// only when their author name equals one of these names exactly.
func ResolveAuthors(identities, tokens []string) map[string]struct{} {
	names, _ := resolve(identities, tokens)
	return names
}

func resolve(identities, tokens []string) (map[string]struct{}, []Match) {
	names := make(map[string]struct{})
	var matches []Match
	for _, identity := range identities {
		lowered := strings.ToLower(identity)
		for _, token := range tokens {
			if token == "" || !strings.Contains(lowered, strings.ToLower(token)) {
				continue
			}
			name, _, _ := strings.Cut(identity, " <")
			names[name] = struct{}{}
			matches = append(matches, Match{Token: token, Name: name})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Token != matches[j].Token {
			return matches[i].Token < matches[j].Token
		}
		return matches[i].Name < matches[j].Name
	})
	return names, matches
}

// ParseLog parses output of GitClient.GetCommitLog. Binary files, reported
// with "-" counts, contribute zero lines.
func ParseLog(raw []byte) ([]schema.CommitRecord, error) {
	var commits []schema.CommitRecord
	for record := range strings.SplitSeq(string(raw), contract.LogRecordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, contract.LogFieldSep, 6)
		if len(fields) < 6 {
			return nil, fmt.Errorf("%w: malformed commit record %q", contract.ErrBackend, truncate(record))
		}
		seconds, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timestamp for commit %s: %v", contract.ErrBackend, fields[0], err)
		}

		commit := schema.CommitRecord{
			Hash:        strings.TrimSpace(fields[0]),
			AuthorName:  fields[1],
			AuthorEmail: fields[2],
			Timestamp:   time.Unix(seconds, 0).UTC(),
			Message:     strings.TrimSpace(fields[4]),
			Files:       make(map[string]schema.FileChange),
		}
		for line := range strings.FieldsFuncSeq(fields[5], isEntrySep) {
			path, change, ok := parseNumstat(line)
			if !ok {
				continue
			}
			prev := commit.Files[path]
			prev.Insertions += change.Insertions
			prev.Deletions += change.Deletions
			commit.Files[path] = prev
			commit.Insertions += change.Insertions
			commit.Deletions += change.Deletions
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// isEntrySep splits numstat entries, which end in NUL under -z.
func isEntrySep(r rune) bool {
	return r == 0 || r == '\n'
}

// parseNumstat parses one "added<TAB>deleted<TAB>path" entry.
func parseNumstat(line string) (string, schema.FileChange, bool) {
	line = strings.TrimRight(line, "\r")
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", schema.FileChange{}, false
	}
	return parts[2], schema.FileChange{
		Insertions: count(parts[0]),
		Deletions:  count(parts[1]),
	}, true
}

func count(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0 // "-" for binary files
	}
	return n
}

func truncate(s string) string {
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
