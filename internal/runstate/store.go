package runstate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists RunState in a local sqlite database. Save rewrites the
// whole state in one transaction, so a crash mid-save never leaves a torn
// state: either the previous state or the new one is committed.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS run_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS template_history (
			position    INTEGER PRIMARY KEY,
			template_id TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS weekly_posts (
			position INTEGER PRIMARY KEY,
			week_key TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing state schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Load reads the persisted state. A database with no prior runs yields a
// fresh zero state.
func (s *Store) Load() (*RunState, error) {
	st := &RunState{}

	rows, err := s.readDB.Query("SELECT key, value FROM run_meta")
	if err != nil {
		return nil, fmt.Errorf("reading run meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning run meta: %w", err)
		}
		switch key {
		case "last_run_date":
			st.LastRunDate = value
		case "pinned_post_id":
			st.PinnedPostID = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hist, err := s.readDB.Query("SELECT template_id FROM template_history ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading template history: %w", err)
	}
	defer hist.Close()
	for hist.Next() {
		var id string
		if err := hist.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning template history: %w", err)
		}
		st.RecentTemplateIDs = append(st.RecentTemplateIDs, id)
	}
	if err := hist.Err(); err != nil {
		return nil, err
	}

	weeks, err := s.readDB.Query("SELECT week_key FROM weekly_posts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("reading weekly posts: %w", err)
	}
	defer weeks.Close()
	for weeks.Next() {
		var key string
		if err := weeks.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning weekly posts: %w", err)
		}
		st.UsedWeeklyKeys = append(st.UsedWeeklyKeys, key)
	}
	return st, weeks.Err()
}

// Save replaces the persisted state with st atomically.
func (s *Store) Save(st *RunState) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"run_meta", "template_history", "weekly_posts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"last_run_date":  st.LastRunDate,
		"pinned_post_id": st.PinnedPostID,
	}
	for key, value := range meta {
		// The DELETE above already dropped the old row, so skipping an
		// empty value clears the key rather than keeping the old one.
		if value == "" {
			continue
		}
		if _, err := tx.Exec("INSERT INTO run_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}

	for i, id := range st.RecentTemplateIDs {
		if _, err := tx.Exec("INSERT INTO template_history (position, template_id) VALUES (?, ?)", i, id); err != nil {
			return fmt.Errorf("saving template history: %w", err)
		}
	}

	for i, key := range st.UsedWeeklyKeys {
		if _, err := tx.Exec("INSERT INTO weekly_posts (position, week_key) VALUES (?, ?)", i, key); err != nil {
			return fmt.Errorf("saving weekly posts: %w", err)
		}
	}

	return tx.Commit()
}
