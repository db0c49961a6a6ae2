package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pbroekroelofs/sports-heroes-schedule/internal/event"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id           TEXT PRIMARY KEY,
    sport        TEXT NOT NULL,
    title        TEXT NOT NULL,
    competition  TEXT NOT NULL,
    start_time   TEXT NOT NULL,
    end_time     TEXT,
    location     TEXT,
    source_url   TEXT,
    fetched_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_sport ON events(sport);
CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time);
`

// Store manages event persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// StoredEvent is the projection returned by QueryByCategory: just enough for
// the purge routine to re-validate stored rows.
type StoredEvent struct {
	ID          string
	Competition string
}

// Open initializes or connects to the event database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert writes an event keyed by its ID, replacing field values on
// conflict. Writing the same event twice leaves a single row.
func (s *Store) Upsert(ctx context.Context, evt *event.Event) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO events (
            id, sport, title, competition, start_time, end_time,
            location, source_url, fetched_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            sport = excluded.sport,
            title = excluded.title,
            competition = excluded.competition,
            start_time = excluded.start_time,
            end_time = excluded.end_time,
            location = excluded.location,
            source_url = excluded.source_url,
            fetched_at = excluded.fetched_at`,
		evt.ID,
		string(evt.Sport),
		evt.Title,
		evt.Competition,
		evt.StartTime.UTC().Format(time.RFC3339),
		nullableTime(evt.EndTime),
		nullableString(evt.Location),
		nullableString(evt.SourceURL),
		evt.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", evt.ID, err)
	}
	return nil
}

// DeleteAllForCategories removes every stored event in the given categories.
// Used by the replace-on-success sweep before a fresh batch is upserted.
func (s *Store) DeleteAllForCategories(ctx context.Context, categories []event.SportCategory) error {
	if len(categories) == 0 {
		return nil
	}

	placeholders := make([]string, len(categories))
	args := make([]interface{}, len(categories))
	for i, cat := range categories {
		placeholders[i] = "?"
		args[i] = string(cat)
	}

	query := fmt.Sprintf("DELETE FROM events WHERE sport IN (%s)", strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete events for categories: %w", err)
	}
	return nil
}

// QueryByCategory returns the id and competition of every stored event in a
// category. Only the purge routine uses this.
func (s *Store) QueryByCategory(ctx context.Context, category event.SportCategory) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, competition FROM events WHERE sport = ?", string(category))
	if err != nil {
		return nil, fmt.Errorf("query category %s: %w", category, err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var se StoredEvent
		if err := rows.Scan(&se.ID, &se.Competition); err != nil {
			return nil, fmt.Errorf("scan stored event: %w", err)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

// Delete removes a single event by ID. Deleting a missing ID is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// ListBetween returns events starting within [from, to], sorted by start
// time.
func (s *Store) ListBetween(ctx context.Context, from, to time.Time) ([]*event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sport, title, competition, start_time, end_time,
                location, source_url, fetched_at
         FROM events
         WHERE start_time >= ? AND start_time <= ?
         ORDER BY start_time ASC`,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []*event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func scanEvent(rows *sql.Rows) (*event.Event, error) {
	var (
		evt       event.Event
		sport     string
		start     string
		fetched   string
		end       sql.NullString
		location  sql.NullString
		sourceURL sql.NullString
	)
	if err := rows.Scan(&evt.ID, &sport, &evt.Title, &evt.Competition,
		&start, &end, &location, &sourceURL, &fetched); err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}

	evt.Sport = event.SportCategory(sport)
	evt.Location = location.String
	evt.SourceURL = sourceURL.String

	var err error
	if evt.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
		return nil, fmt.Errorf("parse start time %q: %w", start, err)
	}
	if evt.FetchedAt, err = time.Parse(time.RFC3339, fetched); err != nil {
		return nil, fmt.Errorf("parse fetched at %q: %w", fetched, err)
	}
	if end.Valid {
		t, err := time.Parse(time.RFC3339, end.String)
		if err != nil {
			return nil, fmt.Errorf("parse end time %q: %w", end.String, err)
		}
		evt.EndTime = &t
	}

	return &evt, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
