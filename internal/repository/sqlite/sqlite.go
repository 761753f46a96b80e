// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the binary builds without CGo and
// tests can run against ":memory:" databases anywhere Go runs.
//
// SCHEMA:
//
//	users  (handle PK, display_name)
//	events (id PK, user_handle → users, title, start_time, end_time,
//	        reply_to_event_id → events)
//	likes  (id PK, event_id, user_handle, UNIQUE(event_id, user_handle))
//
// The events foreign keys are enforced (PRAGMA foreign_keys is set on every
// pooled connection through the DSN). Likes reference nothing: a like may
// exist for any (event, handle) pair, and the feed query only ever joins it
// onto existing events.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface in internal/repository.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/forum.db" → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate, empty database.
	// Pin the pool to one connection so all queries see the same schema.
	if isMemory(dbPath) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// dsn appends the per-connection pragmas. PRAGMA statements run with Exec
// only affect the connection they ran on; _pragma parameters are applied by
// the driver to every new connection in the pool.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.Contains(dbPath, "mode=memory")
}

// migrate creates the schema. Every statement is idempotent, so it runs on
// each startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			handle       TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			user_handle       TEXT NOT NULL REFERENCES users(handle),
			title             TEXT NOT NULL,
			start_time        TEXT,
			end_time          TEXT,
			reply_to_event_id INTEGER REFERENCES events(id),
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_events_reply_to ON events(reply_to_event_id);
		CREATE INDEX IF NOT EXISTS idx_events_user_handle ON events(user_handle);
	`)
	if err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS likes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id    INTEGER NOT NULL,
			user_handle TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (event_id, user_handle)
		);
		CREATE INDEX IF NOT EXISTS idx_likes_user_handle ON likes(user_handle);
	`)
	if err != nil {
		return fmt.Errorf("creating likes table: %w", err)
	}

	return nil
}
