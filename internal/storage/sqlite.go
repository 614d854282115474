package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/sqlscan"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates a missing row.
var ErrNotFound = errors.New("not found")

// SQ builds statements with SQLite placeholders.
var SQ = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const (
	expansionTable      = "expansion"
	categoryTable       = "category"
	eventTable          = "event"
	festivalWindowTable = "festival_window"
	notifyStateTable    = "notify_state"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS expansion (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS category (
		id INTEGER PRIMARY KEY,
		expansion_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		toggleable INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		category_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		map_name TEXT NOT NULL DEFAULT '',
		waypoint_name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		cycle_seconds INTEGER NOT NULL DEFAULT 0,
		offset_unix INTEGER NOT NULL DEFAULT 0,
		active_seconds INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS festival_window (
		event_id TEXT NOT NULL,
		start_unix INTEGER NOT NULL,
		end_unix INTEGER NOT NULL,
		PRIMARY KEY (event_id, start_unix)
	)`,
	`CREATE TABLE IF NOT EXISTS notify_state (
		event_id TEXT PRIMARY KEY,
		enabled INTEGER NOT NULL DEFAULT 0,
		last_notified INTEGER NOT NULL DEFAULT 0
	)`,
}

type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

type queryable interface {
	sqlscan.Querier
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store is the SQLite-backed catalog and notify state store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, statement := range schema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (store *Store) Close() error {
	return store.db.Close()
}

func (store *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func execFn(ctx context.Context, q queryable, sqlizer sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	return nil
}

func selectFn(ctx context.Context, q queryable, dst interface{}, sqlizer sqlizer) error {
	query, args, err := sqlizer.ToSql()
	if err != nil {
		return fmt.Errorf("ToSql: %w", err)
	}
	if err := sqlscan.Select(ctx, q, dst, query, args...); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	return nil
}
