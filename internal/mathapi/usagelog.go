package mathapi

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// UsageLog is an append-only SQLite log of API calls.
type UsageLog struct {
	db *sql.DB
}

// LogEntry is one recorded API call.
type LogEntry struct {
	ID         int64  `json:"id"`
	Method     string `json:"method"`
	Timestamp  string `json:"timestamp"`
	Parameters string `json:"parameters"`
}

// OpenUsageLog opens (and if needed initializes) the log database at path.
func OpenUsageLog(path string) (*UsageLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS api_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		method TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		parameters TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing usage log schema: %w", err)
	}
	return &UsageLog{db: db}, nil
}

// Record appends one call with its parameters serialized as "k=v" pairs.
// Keys are sorted so the serialized form is deterministic.
func (l *UsageLog) Record(ctx context.Context, method string, params map[string]any) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, params[k])
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO api_log (method, parameters) VALUES (?, ?)`,
		method, strings.Join(pairs, ","))
	return err
}

// Recent returns up to limit entries, newest first.
func (l *UsageLog) Recent(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, method, timestamp, parameters
		FROM api_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LogEntry, 0, limit)
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Method, &e.Timestamp, &e.Parameters); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (l *UsageLog) Close() error { return l.db.Close() }
