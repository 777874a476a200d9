package achievement

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps unlocks in a local SQLite database, plus an append-only
// log of unlock and reset events.
type SQLiteStore struct {
	db *sql.DB
}

// LogEntry is one row of the unlock history.
type LogEntry struct {
	Title string
	Event string
	At    time.Time
}

// OpenSQLite opens or creates the database at path, expanding a leading ~
// and creating parent directories.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("achievement: expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("achievement: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("achievement: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("achievement: connect database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("achievement: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS unlocks (
			title TEXT PRIMARY KEY,
			unlocked_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS unlock_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			event TEXT NOT NULL,
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_unlock_log_title ON unlock_log(title);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) LoadUnlocked() (map[string]time.Time, error) {
	rows, err := s.db.Query("SELECT title, unlocked_at FROM unlocks")
	if err != nil {
		return nil, fmt.Errorf("achievement: query unlocks: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var title string
		var at int64
		if err := rows.Scan(&title, &at); err != nil {
			return nil, fmt.Errorf("achievement: scan unlock: %w", err)
		}
		out[title] = time.Unix(0, at)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveUnlock(title string, at time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("achievement: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT OR IGNORE INTO unlocks (title, unlocked_at) VALUES (?, ?)", title, at.UnixNano())
	if err != nil {
		return fmt.Errorf("achievement: save unlock %q: %w", title, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		if _, err := tx.Exec("INSERT INTO unlock_log (title, event, at) VALUES (?, 'unlock', ?)", title, at.UnixNano()); err != nil {
			return fmt.Errorf("achievement: log unlock %q: %w", title, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Reset() error {
	now := time.Now().UnixNano()
	if _, err := s.db.Exec("DELETE FROM unlocks"); err != nil {
		return fmt.Errorf("achievement: reset: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO unlock_log (title, event, at) VALUES ('', 'reset', ?)", now); err != nil {
		return fmt.Errorf("achievement: log reset: %w", err)
	}
	return nil
}

// History returns the newest log entries first.
func (s *SQLiteStore) History(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query("SELECT title, event, at FROM unlock_log ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("achievement: query history: %w", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		var at int64
		if err := rows.Scan(&e.Title, &e.Event, &at); err != nil {
			return nil, fmt.Errorf("achievement: scan history: %w", err)
		}
		e.At = time.Unix(0, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
