// Package runstore records report runs in a SQL database.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/gitreport/internal/contract"
	"github.com/huangsam/gitreport/schema"
)

// Table names for run history.
const (
	runsTable         = "gitreport_runs"
	authorTotalsTable = "gitreport_author_totals"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// openDB opens a connection pool for the backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil
	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid MySQL connection string: %v", contract.ErrConfig, err)
		}
		// Scan DATETIME columns into time.Time
		dsn.ParseTime = true
		db, err := sql.Open("mysql", dsn.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil
	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: unsupported backend: %s", contract.ErrConfig, backend)
	}
}

// NewHistoryStore creates a HistoryStore for the backend. The none backend
// yields a store whose writes are no-ops.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &HistoryStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := applyUpScripts(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// placeholders returns n bind markers in the dialect of the backend.
func (hs *HistoryStoreImpl) placeholders(n int) []any {
	marks := make([]any, n)
	for i := range marks {
		if hs.backend == schema.PostgreSQLBackend {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return marks
}

// BeginRun creates a new run record and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, run schema.RunRecord, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	table := quoteTableName(runsTable, hs.backend)
	marks := hs.placeholders(6)
	query := fmt.Sprintf(`INSERT INTO %s (repo_name, branch, range_label, start_time, output_dir, config_params) VALUES (%s, %s, %s, %s, %s, %s)`,
		append([]any{table}, marks...)...)
	args := []any{run.RepoName, run.Branch, run.RangeLabel, formatTime(startTime, hs.backend), run.OutputDir, string(configJSON)}

	var runID int64
	if hs.backend == schema.PostgreSQLBackend {
		err = hs.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	} else {
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totals schema.Totals) error {
	if hs.disabled() {
		return nil
	}

	table := quoteTableName(runsTable, hs.backend)
	marks := hs.placeholders(1)
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, table, marks[0]), runID)
	startTime, err := scanTime(row, hs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	marks = hs.placeholders(8)
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_commits = %s, total_authors = %s, total_files = %s, insertions = %s, deletions = %s WHERE run_id = %s`,
		append([]any{table}, marks...)...)
	_, err = hs.db.Exec(query, formatTime(endTime, hs.backend), durationMs,
		totals.Commits, totals.Authors, totals.Files, totals.Insertions, totals.Deletions, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordAuthorTotals stores the per-author fold of a run in one transaction.
func (hs *HistoryStoreImpl) RecordAuthorTotals(runID int64, authors []schema.AuthorStats) error {
	if hs.disabled() || len(authors) == 0 {
		return nil
	}

	marks := hs.placeholders(6)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, author_name, author_email, commits, insertions, deletions) VALUES (%s, %s, %s, %s, %s, %s)`,
		append([]any{quoteTableName(authorTotalsTable, hs.backend)}, marks...)...)

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, a := range authors {
		if _, err := tx.Exec(query, runID, a.Name, a.Email, a.Commits, a.Insertions, a.Deletions); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert author totals for %s: %w", a.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit author totals: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		var err error
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if status.LastRunTime, err = scanTime(row, hs.backend); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if status.OldestRunTime, err = scanTime(row, hs.backend); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		row = hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_commits), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalCommits); err != nil {
			return status, fmt.Errorf("failed to get total commits: %w", err)
		}
	}

	for _, table := range []string{runsTable, authorTotalsTable} {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repo_name, branch, range_label, start_time, end_time, run_duration_ms,
		total_commits, total_authors, total_files, insertions, deletions, output_dir, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		var start, end any
		if err := rows.Scan(&r.RunID, &r.RepoName, &r.Branch, &r.RangeLabel, &start, &end, &r.DurationMs,
			&r.TotalCommits, &r.TotalAuthors, &r.TotalFiles, &r.Insertions, &r.Deletions, &r.OutputDir, &r.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartTime, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if end != nil {
			endTime, err := parseTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			r.EndTime = &endTime
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllAuthorTotals retrieves every per-author row ordered by run and author.
func (hs *HistoryStoreImpl) GetAllAuthorTotals() ([]schema.AuthorTotalRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, author_name, author_email, commits, insertions, deletions FROM %s ORDER BY run_id, author_name`,
		quoteTableName(authorTotalsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorTotalRecord
	for rows.Next() {
		var r schema.AuthorTotalRecord
		if err := rows.Scan(&r.RunID, &r.AuthorName, &r.AuthorEmail, &r.Commits, &r.Insertions, &r.Deletions); err != nil {
			return nil, fmt.Errorf("failed to scan author totals: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author totals: %w", err)
	}
	return results, nil
}

// Clear removes every stored run and its author rows.
func (hs *HistoryStoreImpl) Clear() error {
	if hs.disabled() {
		return nil
	}
	for _, table := range []string{authorTotalsTable, runsTable} {
		if _, err := hs.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, hs.backend))); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// quoteTableName quotes a table name in the dialect of the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// formatTime stores SQLite times as RFC3339 text; other backends take native times.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// scanTime reads a single time column written by formatTime.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// parseTime converts a scanned time column, which SQLite returns as text.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}
