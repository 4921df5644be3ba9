package activity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/arcade/internal/db"
)

// Recorder is the write side used by the portal.
type Recorder interface {
	Log(ctx context.Context, entry Entry) error
}

// Store provides persistence for activity entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts a new entry. If entry.ID is empty a UUID is generated.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if !entry.Action.Valid() {
		return fmt.Errorf("invalid action %q", entry.Action)
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_entries (
			id, timestamp, action, game_id, game_url, category, query, request_id, remote_addr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.DateTime),
		string(entry.Action),
		entry.GameID,
		entry.GameURL,
		entry.Category,
		entry.Query,
		entry.RequestID,
		entry.RemoteAddr,
	)
	if err != nil {
		return fmt.Errorf("inserting activity entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	Action Action
	GameID string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

const selectColumns = "SELECT id, timestamp, action, game_id, game_url, category, query, request_id, remote_addr FROM activity_entries"

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	clauses, args := filter.where()

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// CountByGame returns launch counts per game (play and random actions),
// most launched first.
func (s *Store) CountByGame(ctx context.Context, limit int) ([]GameCount, error) {
	query := `
		SELECT game_id, COUNT(*) AS n FROM activity_entries
		WHERE action IN ('play','random') AND game_id != ''
		GROUP BY game_id ORDER BY n DESC, game_id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("counting launches: %w", err)
	}
	defer rows.Close()

	var counts []GameCount
	for rows.Next() {
		var c GameCount
		if err := rows.Scan(&c.GameID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM activity_entries WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old activity entries: %w", err)
	}
	return res.RowsAffected()
}

func (f QueryFilter) where() ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(f.Action))
	}
	if f.GameID != "" {
		clauses = append(clauses, "game_id = ?")
		args = append(args, f.GameID)
	}
	if f.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(time.DateTime))
	}
	if f.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, f.Until.UTC().Format(time.DateTime))
	}
	return clauses, args
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e      Entry
		ts     string
		action string
	)
	err := sc.Scan(&e.ID, &ts, &action, &e.GameID, &e.GameURL, &e.Category, &e.Query, &e.RequestID, &e.RemoteAddr)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity entry not found: %w", err)
	}
	if err != nil {
		return nil, err
	}
	e.Action = Action(action)

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		e.Timestamp = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		e.Timestamp = t
	}
	return &e, nil
}
