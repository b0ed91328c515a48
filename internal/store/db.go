package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Action is what happened to a snapshot.
type Action string

const (
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
)

// Event is one row of the snapshot history.
type Event struct {
	ID        string    `json:"id"`
	Report    string    `json:"report"`
	Name      string    `json:"name"`
	Action    Action    `json:"action"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog records snapshot saves and deletes in a sqlite database.
// The snapshot files stay the source of truth; the catalog is history only.
type Catalog struct {
	db     *sql.DB
	logger *zap.Logger
}

const eventTable = `
CREATE TABLE IF NOT EXISTS snapshot_events (
	id TEXT PRIMARY KEY,
	report TEXT NOT NULL,
	name TEXT NOT NULL,
	action TEXT NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

const eventIndex = `
CREATE INDEX IF NOT EXISTS idx_snapshot_events_report ON snapshot_events (report, created_at);
`

// Open connects to the catalog at dbPath, creating the file and schema if needed.
func Open(dbPath string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection also keeps ":memory:" coherent
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{eventTable, eventIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init catalog schema: %w", err)
		}
	}

	logger.Debug("catalog opened", zap.String("path", dbPath))
	return &Catalog{db: db, logger: logger}, nil
}

// RecordEvent stores ev, filling in its ID and timestamp when unset.
func (c *Catalog) RecordEvent(ctx context.Context, ev Event) (Event, error) {
	if ev.Report == "" || ev.Name == "" {
		return Event{}, errors.New("event needs a report and a name")
	}
	if ev.Action != ActionSave && ev.Action != ActionDelete {
		return Event{}, fmt.Errorf("unknown action %q", ev.Action)
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO snapshot_events (id, report, name, action, size_bytes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Report, ev.Name, string(ev.Action), ev.SizeBytes, ev.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("record %s event for %s/%s: %w", ev.Action, ev.Report, ev.Name, err)
	}
	return ev, nil
}

// ListEvents returns up to limit events of report, newest first.
func (c *Catalog) ListEvents(ctx context.Context, report string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, report, name, action, size_bytes, created_at FROM snapshot_events
		WHERE report = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, report, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var action string
		if err := rows.Scan(&ev.ID, &ev.Report, &ev.Name, &action, &ev.SizeBytes, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Action = Action(action)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}
