// Package sqlite provides durable user and avatar stores on a single
// SQLite database file, implementing the authpair store interfaces.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	login         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS avatars (
	login TEXT PRIMARY KEY,
	path  TEXT NOT NULL
);
`

// DB wraps the shared connection and hands out the two store views.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Users returns the credential store view.
func (d *DB) Users() *Users { return &Users{db: d.conn} }

// Avatars returns the avatar store view.
func (d *DB) Avatars() *Avatars { return &Avatars{db: d.conn} }

// Close closes the underlying connection.
func (d *DB) Close() error { return d.conn.Close() }
