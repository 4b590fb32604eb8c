package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// schema contains the SQL statements to create the audit database schema.
const schema = `
CREATE TABLE IF NOT EXISTS calls (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    service TEXT NOT NULL,
    endpoint TEXT NOT NULL,
    method TEXT NOT NULL,
    status INTEGER NOT NULL,
    error_kind TEXT,
    latency_ms INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calls_created_at ON calls(created_at);
CREATE INDEX IF NOT EXISTS idx_calls_service ON calls(service);
CREATE INDEX IF NOT EXISTS idx_calls_request_id ON calls(request_id);
`

// Store persists audit records in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore opens (creating if needed) the audit database at path.
// ":memory:" is accepted for tests.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit.store")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", path, err)
	}

	// The driver serializes writes per connection; a single connection
	// avoids SQLITE_BUSY under concurrent recorders.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	logger.Info("audit store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Insert persists one call record.
func (s *Store) Insert(ctx context.Context, call *Call) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calls (id, request_id, service, endpoint, method, status, error_kind, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ID, call.RequestID, call.Service, call.Endpoint, call.Method,
		call.Status, call.ErrorKind, call.Latency.Milliseconds(), call.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// DeleteOlderThan removes records created before cutoff and reports how
// many were deleted.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calls WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit records: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return n, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Call, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, service, endpoint, method, status, error_kind, latency_ms, created_at
		FROM calls ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var calls []*Call
	for rows.Next() {
		var call Call
		var latencyMS int64
		if err := rows.Scan(&call.ID, &call.RequestID, &call.Service, &call.Endpoint,
			&call.Method, &call.Status, &call.ErrorKind, &latencyMS, &call.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		call.Latency = time.Duration(latencyMS) * time.Millisecond
		calls = append(calls, &call)
	}
	return calls, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
