package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sidelith/side/internal/apikey"
)

// SQLiteStore implements Store on a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the profile database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal_mode: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL DEFAULT '',
			tier TEXT NOT NULL,
			api_key_stored TEXT NOT NULL DEFAULT '',
			revision INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, tier, api_key_stored, revision, created_at, updated_at
		FROM profiles WHERE id = ?
	`, id)

	var p Profile
	var tier string
	err := row.Scan(&p.ID, &p.Email, &tier, &p.APIKeyStored, &p.Revision, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", id, err)
	}
	p.Tier = apikey.Tier(tier)
	return &p, nil
}

func (s *SQLiteStore) Create(ctx context.Context, p *Profile) error {
	if err := p.Tier.Valid(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Revision = 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, tier, api_key_stored, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Email, p.Tier.String(), p.APIKeyStored, p.Revision, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetStoredKey(ctx context.Context, id, stored string, revision int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET api_key_stored = ?, revision = revision + 1, updated_at = ?
		WHERE id = ? AND revision = ?
	`, stored, time.Now().UTC(), id, revision)
	if err != nil {
		return fmt.Errorf("updating profile %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating profile %s: %w", id, err)
	}
	if n == 1 {
		return nil
	}

	// Distinguish a missing row from a concurrent regeneration.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrRevisionConflict
}

var _ Store = (*SQLiteStore)(nil)
