package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	SourceEmitter   = "emitter"
	SourceBroadcast = "broadcast"

	// fixed width so that text ordering matches time ordering
	timeFormat = "2006-01-02T15:04:05.000000000Z"
)

type EventRecord struct {
	ID         string         `json:"id"`
	ReceivedAt time.Time      `json:"receivedAt"`
	Source     string         `json:"source"`
	Action     string         `json:"action"`
	ShortName  string         `json:"shortName"`
	Payload    map[string]any `json:"payload"`
}

// SaveEvent journals a dispatched event, filling in ID and ReceivedAt when unset.
func (db DatabasePool) SaveEvent(ctx context.Context, record EventRecord) (EventRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = time.Now()
	}
	if !db.Enabled {
		return record, nil
	}

	var payload any
	if record.Payload != nil {
		encoded, err := json.Marshal(record.Payload)
		if err != nil {
			return record, fmt.Errorf("could not encode payload of event %s: %w", record.ID, err)
		}
		payload = string(encoded)
	}

	conn, err := db.pool.Take(ctx)
	if err != nil {
		return record, fmt.Errorf("could not get new connection from database: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		INSERT INTO events (
			id,
			received_at,
			source,
			action,
			short_name,
			payload
		) VALUES (
			?, ?, ?, ?, ?, ?
		);`,
		&sqlitex.ExecOptions{
			Args: []any{
				record.ID,
				record.ReceivedAt.UTC().Format(timeFormat),
				record.Source,
				record.Action,
				record.ShortName,
				payload,
			},
		})
	if err != nil {
		return record, fmt.Errorf("could not save event to database: %w", err)
	}

	return record, nil
}

// RecentEvents returns up to limit journaled events, newest first
func (db DatabasePool) RecentEvents(ctx context.Context, limit int) ([]EventRecord, error) {
	records := []EventRecord{}
	if !db.Enabled {
		return records, nil
	}

	conn, err := db.pool.Take(ctx)
	if err != nil {
		return records, fmt.Errorf("could not get new connection from database: %w", err)
	}
	defer db.pool.Put(conn)

	err = sqlitex.Execute(conn, `
		SELECT id, received_at, source, action, short_name, payload
		FROM events
		ORDER BY received_at DESC, rowid DESC
		LIMIT ?;`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				record := EventRecord{
					ID:        stmt.ColumnText(0),
					Source:    stmt.ColumnText(2),
					Action:    stmt.ColumnText(3),
					ShortName: stmt.ColumnText(4),
				}

				receivedAt, parseErr := time.Parse(timeFormat, stmt.ColumnText(1))
				if parseErr != nil {
					log.Printf("could not parse time of event %s: %s", record.ID, parseErr)
				}
				record.ReceivedAt = receivedAt

				if stmt.ColumnType(5) != sqlite.TypeNull {
					if jsonErr := json.Unmarshal([]byte(stmt.ColumnText(5)), &record.Payload); jsonErr != nil {
						log.Printf("could not decode payload of event %s: %s", record.ID, jsonErr)
					}
				}

				records = append(records, record)
				return nil
			},
		})
	if err != nil {
		return records, fmt.Errorf("could not read events from database: %w", err)
	}

	return records, nil
}
