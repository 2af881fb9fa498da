// Package postgres implements the storage port (pkg/domain/repositories) against a
// relational schema via database/sql and github.com/lib/pq, grounded on qlp-hq-QLP's
// internal/database package: a thin Database wrapper around *sql.DB, one repository
// struct per aggregate holding a pointer to that wrapper, and $N placeholders with
// QueryRow/Exec rather than an ORM.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Database wraps a connection pool to a Postgres instance holding the scheduler's
// schema.
type Database struct {
	conn *sql.DB
}

// Open connects to dsn and configures the pool. Callers should defer Close.
func Open(dsn string) (*Database, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Open: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres.Open: ping: %w", err)
	}

	return &Database{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (db *Database) Close() error {
	return db.conn.Close()
}

// DB exposes the underlying *sql.DB for callers that need a transaction spanning
// more than one repository.
func (db *Database) DB() *sql.DB {
	return db.conn
}
