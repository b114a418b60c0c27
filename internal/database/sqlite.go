package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"autobk/internal/autobk"
)

// Schema is the Device table layout for local SQLite databases. MySQL
// deployments own their schema; it is never applied there.
//
//go:embed schema.sql
var Schema string

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", autobk.ErrConnection, err)
	}

	// Every new connection to ":memory:" is a separate empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// NewSQLiteGateway opens a SQLite database at path and makes sure the Device
// table exists.
func NewSQLiteGateway(ctx context.Context, path string) (*SQLGateway, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: applying schema: %w", autobk.ErrConnection, err)
	}

	return NewSQLGateway(db, "sqlite3"), nil
}
