package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo driver, registered as "sqlite3"
	_ "modernc.org/sqlite"          // pure-Go driver, registered as "sqlite"

	"mercator-hq/saturn/pkg/journal"
)

// timeLayout is the fixed-width UTC format used for the timestamp column.
// Fixed width keeps lexicographic order equal to chronological order, so
// range filters and ORDER BY behave identically under both drivers.
const timeLayout = "2006-01-02 15:04:05.000000000"

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the SQL driver: "sqlite" (modernc.org/sqlite,
	// pure Go) or "sqlite3" (mattn/go-sqlite3, cgo).
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 1 (SQLite only supports a single writer)
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/journal.db",
		Driver:       "sqlite",
		MaxOpenConns: 1,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements journal.Storage using SQLite.
type SQLiteStorage struct {
	db         *sql.DB
	config     *SQLiteConfig
	insertStmt *sql.Stmt
	logger     *slog.Logger
}

// NewSQLiteStorage opens (or creates) the journal database and initializes
// its schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = "sqlite"
	}
	if config.Driver != "sqlite" && config.Driver != "sqlite3" {
		return nil, fmt.Errorf("unsupported sqlite driver %q (want %q or %q)",
			config.Driver, "sqlite", "sqlite3")
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 1
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "journal.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, journal.NewStorageError(config.Driver, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite journal storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up pragmas and the database schema.
// Pragmas run through Exec rather than DSN parameters because the two
// drivers spell DSN options differently.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return journal.NewStorageError(s.config.Driver, "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return journal.NewStorageError(s.config.Driver, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return journal.NewStorageError(s.config.Driver, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return journal.NewStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return journal.NewStorageError(s.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return journal.NewStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	stmt, err := s.db.Prepare(`INSERT INTO decisions
		(id, resource, decision, occupancy, rate, period_ns, retry_after_ns, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return journal.NewStorageError(s.config.Driver, "prepare_insert", err)
	}
	s.insertStmt = stmt

	return nil
}

// Store persists a journal record.
func (s *SQLiteStorage) Store(ctx context.Context, record *journal.Record) error {
	_, err := s.insertStmt.ExecContext(ctx,
		record.ID,
		record.Resource,
		record.Decision,
		record.Occupancy,
		record.Rate,
		record.Period.Nanoseconds(),
		record.RetryAfter.Nanoseconds(),
		record.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return journal.NewStorageError(s.config.Driver, "store", err)
	}
	return nil
}

// Query retrieves records matching the query filters, sorted by timestamp.
func (s *SQLiteStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Record, error) {
	where, args := buildWhere(query)

	order := "ASC"
	if query != nil && query.SortOrder == "desc" {
		order = "DESC"
	}

	sqlStr := `SELECT id, resource, decision, occupancy, rate, period_ns, retry_after_ns, timestamp
		FROM decisions` + where + " ORDER BY timestamp " + order

	if query != nil {
		switch {
		case query.Limit > 0:
			sqlStr += " LIMIT ?"
			args = append(args, query.Limit)
		case query.Offset > 0:
			// SQLite requires a LIMIT clause before OFFSET
			sqlStr += " LIMIT -1"
		}
		if query.Offset > 0 {
			sqlStr += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, journal.NewStorageError(s.config.Driver, "query", err)
	}
	defer rows.Close()

	results := make([]*journal.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, journal.NewStorageError(s.config.Driver, "scan", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError(s.config.Driver, "query", err)
	}

	return results, nil
}

// Count returns the number of records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	where, args := buildWhere(query)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions"+where, args...).Scan(&count)
	if err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "count", err)
	}

	return count, nil
}

// Delete removes records matching the query filters.
func (s *SQLiteStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	where, args := buildWhere(query)

	result, err := s.db.ExecContext(ctx, "DELETE FROM decisions"+where, args...)
	if err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "delete", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "delete", err)
	}

	return deleted, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLiteStorage) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	if err := s.db.Close(); err != nil {
		return journal.NewStorageError(s.config.Driver, "close", err)
	}
	return nil
}

// buildWhere translates query filters into a WHERE clause and its args.
func buildWhere(query *journal.Query) (string, []interface{}) {
	if query == nil {
		return "", nil
	}

	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if query.Resource != "" {
		clauses = append(clauses, "resource = ?")
		args = append(args, query.Resource)
	}
	if query.Decision != "" {
		clauses = append(clauses, "decision = ?")
		args = append(args, query.Decision)
	}
	if query.StartTime != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, query.StartTime.UTC().Format(timeLayout))
	}
	if query.EndTime != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, query.EndTime.UTC().Format(timeLayout))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanRecord reads one row into a journal.Record.
func scanRecord(rows *sql.Rows) (*journal.Record, error) {
	var (
		record       journal.Record
		periodNs     int64
		retryAfterNs int64
		timestamp    string
	)

	if err := rows.Scan(
		&record.ID,
		&record.Resource,
		&record.Decision,
		&record.Occupancy,
		&record.Rate,
		&periodNs,
		&retryAfterNs,
		&timestamp,
	); err != nil {
		return nil, err
	}

	record.Period = time.Duration(periodNs)
	record.RetryAfter = time.Duration(retryAfterNs)

	ts, err := time.ParseInLocation(timeLayout, timestamp, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
	}
	record.Timestamp = ts

	return &record, nil
}
