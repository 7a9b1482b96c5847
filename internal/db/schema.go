package db

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitemigration"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Updates database schema as needed
func MakeMigrations(path string) error {
	schema := []string{`
		CREATE TABLE IF NOT EXISTS sources (
			source TEXT PRIMARY KEY
		);
	`, `
		INSERT INTO sources (source)
		VALUES
			('emitter'),
			('broadcast');
	`, `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			received_at TEXT NOT NULL,
			source TEXT NOT NULL,
			action TEXT NOT NULL,
			short_name TEXT NOT NULL,
			payload TEXT,
			FOREIGN KEY (source)
				REFERENCES sources (source)
		);
	`, `
		CREATE INDEX IF NOT EXISTS events_received_at ON events (received_at);
	`, `
		CREATE TABLE IF NOT EXISTS watches (
			channel_id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL,
			kinds TEXT NOT NULL DEFAULT ''
		);
	`}

	pool := sqlitemigration.NewPool(
		filepath.Clean(path),
		sqlitemigration.Schema{
			Migrations: schema,
		},
		sqlitemigration.Options{
			Flags: sqlite.OpenReadWrite | sqlite.OpenCreate,
			PrepareConn: func(conn *sqlite.Conn) error {
				// Enable foreign keys
				return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
			},
			OnError: func(e error) {
				log.Println("could not make database migrations:", e)
			},
		})
	defer pool.Close()

	// Migrations are blocking, so use a new connection as an indicator for their completion before closing the pool
	conn, err := pool.Get(context.TODO())
	if err != nil {
		return fmt.Errorf("could not open connection to database: %w", err)
	}
	pool.Put(conn)

	return nil
}
