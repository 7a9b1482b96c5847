package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// DatabasePool wraps the connection pool. With Enabled false every write is a
// no-op and every read comes back empty.
type DatabasePool struct {
	Enabled bool
	pool    *sqlitex.Pool
}

// Checks for an existing SQLite database at the given path and creates one if it does not already exist
func InitializeDatabase(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not get info on file '%s': %w", path, err)
	}

	// create intermediate folders
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create intermediate folders: %w", err)
	}

	// create the new database file
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return fmt.Errorf("could not create new database file: %w", err)
	}
	conn.Close()

	return nil
}

func NewDatabasePool(path string) (DatabasePool, error) {
	pool, err := sqlitex.NewPool(filepath.Clean(path), sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadWrite | sqlite.OpenWAL,
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
		},
	})
	if err != nil {
		return DatabasePool{}, fmt.Errorf("could not open database pool: %w", err)
	}

	return DatabasePool{Enabled: true, pool: pool}, nil
}

// Open initializes, migrates, and pools the database at path
func Open(path string) (DatabasePool, error) {
	cleanedPath := filepath.Clean(path)

	if err := InitializeDatabase(cleanedPath); err != nil {
		return DatabasePool{}, fmt.Errorf("could not create database: %w", err)
	}
	if err := MakeMigrations(cleanedPath); err != nil {
		return DatabasePool{}, fmt.Errorf("could not make database migrations: %w", err)
	}

	return NewDatabasePool(cleanedPath)
}

func (db DatabasePool) Close() error {
	if !db.Enabled || db.pool == nil {
		return nil
	}
	if err := db.pool.Close(); err != nil {
		return fmt.Errorf("could not close database: %w", err)
	}
	return nil
}
