package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteClient opens a local archive file.
type SQLiteClient struct {
	db   *sql.DB
	path string
}

// NewSQLiteClient constructs a client for the database file at path.
func NewSQLiteClient(path string) *SQLiteClient {
	return &SQLiteClient{path: path}
}

// Connect opens the file, creating it if needed.
func (c *SQLiteClient) Connect(ctx context.Context) error {
	if c.path == "" {
		return fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", c.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}

	c.db = db
	return nil
}

// Close closes the underlying sql.DB handle.
func (c *SQLiteClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB exposes the underlying handle.
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}
