// Package cache keeps the last successful backend responses in a local
// sqlite database so listings can still be shown when the backend is
// unreachable. Entries are scoped per user and keyed by the filter
// combination that produced them.
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ErrMiss is returned by Get when no snapshot exists for the key
var ErrMiss = errors.New("cache miss")

// Snapshot is a cached payload and the time it was fetched
type Snapshot struct {
	Key       string
	Body      []byte
	FetchedAt time.Time
}

type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

// Open opens (creating if needed) the cache database at path and migrates it
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := migration.NewRunner(db, sub).Apply(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache: %w", err)
	}

	return &Store{path: path, db: db, now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores v as JSON under (userID, key), replacing any earlier snapshot
func (s *Store) Put(ctx context.Context, userID, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, key, body, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, userID, key, body, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}

// Get decodes the snapshot stored under (userID, key) into v and returns
// when it was fetched. ErrMiss is returned when there is none.
func (s *Store) Get(ctx context.Context, userID, key string, v any) (time.Time, error) {
	var body []byte
	var fetched string
	err := s.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM snapshots WHERE user_id = ? AND key = ?`, userID, key,
	).Scan(&body, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrMiss
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, fetched)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fetched_at on snapshot %s: %w", key, err)
	}
	return fetchedAt, nil
}

// Keys lists the snapshot keys held for userID, most recent first
func (s *Store) Keys(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM snapshots WHERE user_id = ? ORDER BY fetched_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Invalidate drops every snapshot of userID whose key starts with prefix.
// Mutations call this so the next offline read does not show stale data.
func (s *Store) Invalidate(ctx context.Context, userID, prefix string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE user_id = ? AND substr(key, 1, ?) = ?`, userID, len(prefix), prefix)
	if err != nil {
		return fmt.Errorf("failed to invalidate %s snapshots: %w", prefix, err)
	}
	return nil
}

// PutUser remembers the last authenticated user
func (s *Store) PutUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, created_at, seen_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET email = excluded.email, seen_at = excluded.seen_at
	`, u.ID, u.Email, u.CreatedAt.UTC().Format(time.RFC3339Nano), s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}
	return nil
}

// LastUser returns the most recently seen user, or ErrMiss
func (s *Store) LastUser(ctx context.Context) (models.User, error) {
	var u models.User
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM users ORDER BY seen_at DESC LIMIT 1`,
	).Scan(&u.ID, &u.Email, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrMiss
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read cached user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return u, nil
}

// ClearUser drops the user record and every snapshot belonging to it
func (s *Store) ClearUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	return tx.Commit()
}

// Clear empties the cache and returns the number of snapshots removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return res.RowsAffected()
}

// SchemaVersion reports the applied and the newest known schema versions
func (s *Store) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return 0, 0, err
	}
	runner := migration.NewRunner(s.db, sub)
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	migrations, err := runner.Migrations()
	if err != nil {
		return 0, 0, err
	}
	for _, m := range migrations {
		latest = max(latest, m.Version)
	}
	return current, latest, nil
}
