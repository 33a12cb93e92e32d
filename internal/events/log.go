// Package events persists a bounded history of tunnel lifecycle events for
// display. The history is advisory; losing it costs nothing.
package events

import (
	"database/sql"
	"time"
)

// Event is one recorded lifecycle transition or failure.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Code      string    `json:"code"`
	Detail    string    `json:"detail,omitempty"`
}

// Log records events in SQLite. It satisfies tunnel.EventSink.
type Log struct {
	db *sql.DB
}

// NewLog creates a log over an opened database handle.
func NewLog(db *sql.DB) *Log {
	return &Log{db: db}
}

// Record appends one event stamped with the current time.
func (l *Log) Record(action, code, detail string) error {
	_, err := l.db.Exec(
		`INSERT INTO tunnel_events (timestamp, action, code, detail) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Unix(), action, code, detail,
	)
	return err
}

// Recent returns up to limit events, newest first.
func (l *Log) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT timestamp, action, code, detail FROM tunnel_events
		 ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Event
	for rows.Next() {
		var event Event
		var stamp int64
		if err := rows.Scan(&stamp, &event.Action, &event.Code, &event.Detail); err != nil {
			return nil, err
		}
		event.Timestamp = time.Unix(stamp, 0).UTC()
		list = append(list, event)
	}
	return list, rows.Err()
}
