// Package postgres stores interview records in a PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/storage"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store inserts one row per finished session.
type Store struct {
	db    querier
	close func()
	now   func() time.Time
}

// New connects to databaseURL and makes sure the schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{db: pool, close: pool.Close, now: time.Now}, nil
}

func initSchema(ctx context.Context, db querier) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			session_id TEXT PRIMARY KEY,
			hashed_email TEXT,
			record JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_email_created ON candidates (hashed_email, created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Persist implements storage.Store. A session id that was already stored is
// left untouched.
func (s *Store) Persist(ctx context.Context, sessionID string, values profile.Values, transcript []storage.Message) error {
	now := s.now()
	rec := storage.NewRecord(sessionID, values, transcript, now)
	data, err := rec.Encode()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO candidates (session_id, hashed_email, record, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id) DO NOTHING`,
		rec.SessionID,
		rec.HashedEmail,
		string(data),
		now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// LastProfile implements storage.Finder.
func (s *Store) LastProfile(ctx context.Context, hashedEmail string) (*storage.StoredProfile, error) {
	if hashedEmail == "" {
		return nil, storage.ErrNotFound
	}

	var record string
	err := s.db.QueryRow(ctx,
		`SELECT record::text FROM candidates
		 WHERE hashed_email = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		hashedEmail,
	).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate: %w", err)
	}

	_, p, err := storage.DecodeProfile([]byte(record))
	if err != nil {
		return nil, err
	}
	return p, nil
}
