package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a Store backed by a SQLite database at dbPath.
func OpenSQLite(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	// One connection keeps reads behind the last write.
	db.SetMaxOpenConns(1)

	s := &sqliteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqliteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			text      TEXT NOT NULL UNIQUE,
			label     TEXT NOT NULL,
			score     REAL NOT NULL,
			timestamp TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *sqliteStore) Get(text string) (Result, bool, error) {
	var r Result
	err := s.db.QueryRow(
		`SELECT label, score, timestamp FROM results WHERE text = ?`, text,
	).Scan(&r.Label, &r.Score, &r.Timestamp)
	if err == sql.ErrNoRows {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("querying result: %w", err)
	}
	return r, true, nil
}

func (s *sqliteStore) PutIfAbsent(text string, r Result) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO results (text, label, score, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(text) DO NOTHING
	`, text, r.Label, r.Score, r.Timestamp)
	if err != nil {
		return false, fmt.Errorf("storing result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storing result: %w", err)
	}
	return n == 1, nil
}

func (s *sqliteStore) All() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT text, label, score, timestamp FROM results ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Text, &e.Label, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *sqliteStore) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM results`); err != nil {
		return fmt.Errorf("resetting cache: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
