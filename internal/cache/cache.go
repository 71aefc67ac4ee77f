// Package cache persists a local, optional history of solved
// proof-of-work challenges and the tokens they earned, backing the
// CLI's history subcommand. It is not part of the core protocol: the
// spec treats persisted state as a non-goal for Challenge/Token
// themselves, but a client-side audit trail of past solves is useful
// operationally and does not contradict that.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one completed Validate invocation.
type Record struct {
	ID          int64
	Endpoint    string
	Solution    int64
	ThreadCount int
	HashRate    uint64
	SolvedAt    time.Time
	TokenValue  string
}

// Store persists Records to a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS solves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		solution INTEGER NOT NULL,
		thread_count INTEGER NOT NULL,
		hash_rate INTEGER NOT NULL,
		solved_at DATETIME NOT NULL,
		token_value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_solves_endpoint ON solves(endpoint);
	CREATE INDEX IF NOT EXISTS idx_solves_solved_at ON solves(solved_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating cache schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r into the history.
func (s *Store) Save(r Record) error {
	_, err := s.db.Exec(`
		INSERT INTO solves (endpoint, solution, thread_count, hash_rate, solved_at, token_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Endpoint, r.Solution, r.ThreadCount, r.HashRate, r.SolvedAt, r.TokenValue)
	if err != nil {
		return fmt.Errorf("saving solve record: %w", err)
	}
	return nil
}

// Recent returns the limit most recent records, newest first. limit <= 0
// means unbounded.
func (s *Store) Recent(limit int) ([]Record, error) {
	query := `
		SELECT id, endpoint, solution, thread_count, hash_rate, solved_at, token_value
		FROM solves
		ORDER BY solved_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying solve history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Endpoint, &r.Solution, &r.ThreadCount, &r.HashRate, &r.SolvedAt, &r.TokenValue); err != nil {
			return nil, fmt.Errorf("scanning solve record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating solve history: %w", err)
	}
	return records, nil
}
