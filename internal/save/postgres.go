package save

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const queryTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS duel_saves (
	session_id TEXT PRIMARY KEY,
	snapshot   JSONB NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL
)`

// PGStore keeps records in a Postgres table.
type PGStore struct {
	db *sql.DB
}

// NewPGStore wraps an open handle and creates the table if needed.
func NewPGStore(ctx context.Context, db *sql.DB) (*PGStore, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("save: create schema: %w", err)
	}
	return &PGStore{db: db}, nil
}

// OpenPG connects using a connection string such as DATABASE_URL.
func OpenPG(ctx context.Context, connStr string) (*PGStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return NewPGStore(ctx, db)
}

func (s *PGStore) Save(ctx context.Context, rec Record) error {
	if err := checkID(rec.SessionID); err != nil {
		return err
	}
	snap, err := json.Marshal(rec.Duel)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO duel_saves (session_id, snapshot, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET snapshot = EXCLUDED.snapshot,
		    saved_at = EXCLUDED.saved_at
	`, rec.SessionID, snap, rec.SavedAt)
	return err
}

func (s *PGStore) Load(ctx context.Context, id string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	row := s.db.QueryRowContext(ctx, `
		SELECT snapshot, saved_at FROM duel_saves WHERE session_id = $1
	`, id)
	var (
		raw []byte
		rec = Record{SessionID: id}
	)
	if err := row.Scan(&raw, &rec.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, err
	}
	if err := json.Unmarshal(raw, &rec.Duel); err != nil {
		return Record{}, fmt.Errorf("save: decode %s: %w", id, err)
	}
	return rec, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := s.db.ExecContext(ctx, `DELETE FROM duel_saves WHERE session_id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close releases the database handle.
func (s *PGStore) Close() error { return s.db.Close() }
