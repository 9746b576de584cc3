package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"newsfetch/internal/models"
)

// Store keeps the latest runs in SQLite so the status table and process log
// survive the process that produced them.
type Store struct {
	conn *sql.DB
}

// OpenStore opens (and creates if needed) the session database.
func OpenStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		since TEXT NOT NULL,
		until TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT
	);

	CREATE TABLE IF NOT EXISTS run_status (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		articles INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS run_log (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		logged_at TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`

	_, err := s.conn.Exec(schema)

	return err
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}

	return t
}

// Save writes the snapshot, replacing what was stored for the same run.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var finished sql.NullString
	if snap.Finished() {
		finished = sql.NullString{String: formatTime(snap.FinishedAt), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, since, until, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET finished_at = excluded.finished_at
	`, snap.ID, formatTime(snap.Since), formatTime(snap.Until), formatTime(snap.StartedAt), finished)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_status WHERE run_id = ?`, snap.ID); err != nil {
		return fmt.Errorf("clear status: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_log WHERE run_id = ?`, snap.ID); err != nil {
		return fmt.Errorf("clear log: %w", err)
	}

	for i, st := range snap.Status {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO run_status (run_id, seq, symbol, articles, failed) VALUES (?, ?, ?, ?, ?)
		`, snap.ID, i, st.Symbol, st.Articles, st.Failed)
		if err != nil {
			return fmt.Errorf("save status: %w", err)
		}
	}

	for i, e := range snap.Log {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO run_log (run_id, seq, logged_at, level, message) VALUES (?, ?, ?, ?, ?)
		`, snap.ID, i, formatTime(e.Time), string(e.Level), e.Message)
		if err != nil {
			return fmt.Errorf("save log: %w", err)
		}
	}

	return tx.Commit()
}

// Latest returns the most recently started run, or nil when there is none.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	var (
		snap                  Snapshot
		since, until, started string
		finished              sql.NullString
	)

	err := s.conn.QueryRowContext(ctx, `
	SELECT id, since, until, started_at, finished_at
	FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1
	`).Scan(&snap.ID, &since, &until, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	snap.Since = parseTime(since)
	snap.Until = parseTime(until)
	snap.StartedAt = parseTime(started)

	if finished.Valid {
		snap.FinishedAt = parseTime(finished.String)
	}

	if snap.Status, err = s.loadStatus(ctx, snap.ID); err != nil {
		return nil, err
	}

	if snap.Log, err = s.loadLog(ctx, snap.ID); err != nil {
		return nil, err
	}

	return &snap, nil
}

func (s *Store) loadStatus(ctx context.Context, runID string) ([]models.SymbolStatus, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT symbol, articles, failed FROM run_status WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	defer rows.Close()

	statuses := []models.SymbolStatus{}

	for rows.Next() {
		var st models.SymbolStatus
		if err := rows.Scan(&st.Symbol, &st.Articles, &st.Failed); err != nil {
			return nil, err
		}

		statuses = append(statuses, st)
	}

	return statuses, rows.Err()
}

func (s *Store) loadLog(ctx context.Context, runID string) ([]models.LogEntry, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT logged_at, level, message FROM run_log WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}

	for rows.Next() {
		var (
			e     models.LogEntry
			at    string
			level string
		)

		if err := rows.Scan(&at, &level, &e.Message); err != nil {
			return nil, err
		}

		e.Time = parseTime(at)
		e.Level = models.LogLevel(level)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes every stored run.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"run_log", "run_status", "runs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}
