package db

import (
	"context"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// WatchData is a Discord channel subscribed to conference broadcasts.
// Empty Kinds means every kind.
type WatchData struct {
	ChannelID string
	GuildID   string
	Kinds     []string // short names
}

// SaveWatch stores the watch, replacing any previous one for the channel
func (db DatabasePool) SaveWatch(ctx context.Context, watch WatchData) error {
	if !db.Enabled {
		return nil
	}

	conn, err := db.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("could not get new connection from database: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO watches (
			channel_id,
			guild_id,
			kinds
		) VALUES (
			?, ?, ?
		)
		ON CONFLICT (channel_id) DO UPDATE SET
			guild_id = excluded.guild_id,
			kinds = excluded.kinds;`,
		&sqlitex.ExecOptions{
			Args: []any{watch.ChannelID, watch.GuildID, strings.Join(watch.Kinds, ",")},
		})
	if err != nil {
		return fmt.Errorf("could not save watch to database: %w", err)
	}
	return nil
}

func (db DatabasePool) DeleteWatch(ctx context.Context, channelID string) error {
	if !db.Enabled {
		return nil
	}

	conn, err := db.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("could not get new connection from database: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		DELETE FROM watches
		WHERE channel_id = ?;`,
		&sqlitex.ExecOptions{
			Args: []any{channelID},
		})
	if err != nil {
		return fmt.Errorf("could not delete watch from database: %w", err)
	}
	return nil
}

func (db DatabasePool) GetAllWatches(ctx context.Context) ([]WatchData, error) {
	watches := []WatchData{}
	if !db.Enabled {
		return watches, nil
	}

	conn, err := db.pool.Take(ctx)
	if err != nil {
		return watches, fmt.Errorf("could not get new connection from database: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		SELECT channel_id, guild_id, kinds
		FROM watches
		ORDER BY channel_id;`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				watch := WatchData{
					ChannelID: stmt.ColumnText(0),
					GuildID:   stmt.ColumnText(1),
				}
				if kinds := stmt.ColumnText(2); kinds != "" {
					watch.Kinds = strings.Split(kinds, ",")
				}
				watches = append(watches, watch)
				return nil
			},
		})
	if err != nil {
		return watches, fmt.Errorf("could not load watches from database: %w", err)
	}
	return watches, nil
}
