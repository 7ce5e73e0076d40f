package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/vancomm/minewalk/internal/records"
)

// SQLiteStore keeps records in a player_record table of a SQLite database.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the player_record table if needed.
func NewSQLite(db *sql.DB) (*SQLiteStore, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS player_record (
	player	TEXT PRIMARY KEY,
	total	INTEGER NOT NULL DEFAULT 0 CHECK (total >= 0),
	win		INTEGER NOT NULL DEFAULT 0 CHECK (win >= 0),
	lose	INTEGER NOT NULL DEFAULT 0 CHECK (lose >= 0)
);`)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, player string) (records.Record, error) {
	var r records.Record
	err := s.db.QueryRowContext(ctx,
		`SELECT total, win, lose FROM player_record WHERE player = ?;`,
		player,
	).Scan(&r.Total, &r.Wins, &r.Losses)
	if errors.Is(err, sql.ErrNoRows) {
		return records.Record{}, records.ErrNotFound
	}
	if err != nil {
		return records.Record{}, err
	}
	return r, nil
}

// Inserts a new record or updates an existing one.
func (s *SQLiteStore) Save(ctx context.Context, player string, r records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO player_record (player, total, win, lose)
VALUES (?, ?, ?, ?)
ON CONFLICT(player)
DO UPDATE SET total=excluded.total, win=excluded.win, lose=excluded.lose;`,
		player, r.Total, r.Wins, r.Losses)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
