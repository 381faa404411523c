package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLite is a Store backed by the sessions table (see internal/database).
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		blob    []byte
		ttlMs   int64
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT blob, ttl_ms, expires_at FROM sessions WHERE key=?`, key,
	).Scan(&blob, &ttlMs, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UnixMilli()
	if expires <= now {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key=? AND expires_at<=?`, key, now); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at=? WHERE key=?`, now+ttlMs, key,
	); err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *SQLite) Set(ctx context.Context, key string, blob []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions(key, blob, ttl_ms, expires_at, updated_at)
        VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET
            blob=excluded.blob,
            ttl_ms=excluded.ttl_ms,
            expires_at=excluded.expires_at,
            updated_at=CURRENT_TIMESTAMP`,
		key, blob, ttl.Milliseconds(), now.Add(ttl).UnixMilli(),
	)
	return err
}

func (s *SQLite) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at<=?`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
