// Package sessionstore persists bridged platform sessions and the internal
// sessions that correlate browser clients to them.
package sessionstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
)

const schema = `
CREATE TABLE IF NOT EXISTS internal_sessions (
    id TEXT PRIMARY KEY,
    created_at DATETIME NOT NULL,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS platform_sessions (
    identity_hash TEXT NOT NULL,
    platform TEXT NOT NULL,
    internal_session_id TEXT NOT NULL,
    cookie_name TEXT NOT NULL,
    cookie_value TEXT NOT NULL,
    source_url TEXT,
    captured_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (identity_hash, platform)
);

CREATE INDEX IF NOT EXISTS idx_platform_sessions_internal
    ON platform_sessions (internal_session_id, platform);
`

// Store is the SQL-backed session.Store. Cookie values are AES-GCM encrypted
// before they reach a row and decrypted on the way out.
type Store struct {
	conn   *sql.DB
	aesKey string
}

// New creates the store and bootstraps its schema.
func New(conn *sql.DB, aesKey string) (*Store, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create session tables: %w", err)
	}
	return &Store{conn: conn, aesKey: aesKey}, nil
}

// UpsertPlatformSession writes the single current record for
// (identity, platform), replacing any prior record for the same pair.
func (s *Store) UpsertPlatformSession(ctx context.Context, rec *session.PlatformSession) error {
	encrypted, err := security.Encrypt(rec.Cookie.Value, s.aesKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt cookie value: %w", err)
	}

	query := `INSERT INTO platform_sessions
	              (identity_hash, platform, internal_session_id, cookie_name, cookie_value, source_url, captured_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT (identity_hash, platform) DO UPDATE SET
	              internal_session_id = excluded.internal_session_id,
	              cookie_name = excluded.cookie_name,
	              cookie_value = excluded.cookie_value,
	              source_url = excluded.source_url,
	              captured_at = excluded.captured_at,
	              updated_at = excluded.updated_at`

	_, err = s.conn.ExecContext(ctx, query,
		string(rec.Identity), string(rec.Platform), rec.InternalSessionID,
		rec.Cookie.Name, encrypted, rec.SourceURL, rec.CapturedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert platform session: %w", err)
	}
	return nil
}

// GetPlatformSession returns the current record for (identity, platform), or
// (nil, nil) when none exists.
func (s *Store) GetPlatformSession(ctx context.Context, identity session.Identity, platform session.Platform) (*session.PlatformSession, error) {
	query := `SELECT identity_hash, platform, internal_session_id, cookie_name, cookie_value, source_url, captured_at, updated_at
	          FROM platform_sessions
	          WHERE identity_hash = ? AND platform = ?`
	return s.scanOne(s.conn.QueryRowContext(ctx, query, string(identity), string(platform)))
}

// GetPlatformSessionByInternalID resolves a record through the browser's
// internal session id instead of the identity hash.
func (s *Store) GetPlatformSessionByInternalID(ctx context.Context, internalID string, platform session.Platform) (*session.PlatformSession, error) {
	query := `SELECT identity_hash, platform, internal_session_id, cookie_name, cookie_value, source_url, captured_at, updated_at
	          FROM platform_sessions
	          WHERE internal_session_id = ? AND platform = ?`
	return s.scanOne(s.conn.QueryRowContext(ctx, query, internalID, string(platform)))
}

func (s *Store) scanOne(row *sql.Row) (*session.PlatformSession, error) {
	var rec session.PlatformSession
	var identity, platform, encrypted string
	var sourceURL sql.NullString

	err := row.Scan(&identity, &platform, &rec.InternalSessionID,
		&rec.Cookie.Name, &encrypted, &sourceURL, &rec.CapturedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan platform session: %w", err)
	}

	value, err := security.Decrypt(encrypted, s.aesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt cookie value: %w", err)
	}

	rec.Identity = session.Identity(identity)
	rec.Platform = session.Platform(platform)
	rec.Cookie.Value = value
	if sourceURL.Valid {
		rec.SourceURL = sourceURL.String
	}
	return &rec, nil
}

// DeletePlatformSession removes the record for (identity, platform).
func (s *Store) DeletePlatformSession(ctx context.Context, identity session.Identity, platform session.Platform) error {
	query := `DELETE FROM platform_sessions WHERE identity_hash = ? AND platform = ?`
	if _, err := s.conn.ExecContext(ctx, query, string(identity), string(platform)); err != nil {
		return fmt.Errorf("failed to delete platform session: %w", err)
	}
	return nil
}

// ListPlatformSessions returns every stored record. Used at startup to
// re-register persisted sessions with the health monitor.
func (s *Store) ListPlatformSessions(ctx context.Context) ([]*session.PlatformSession, error) {
	query := `SELECT identity_hash, platform, internal_session_id, cookie_name, cookie_value, source_url, captured_at, updated_at
	          FROM platform_sessions`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform sessions: %w", err)
	}
	defer rows.Close()

	var records []*session.PlatformSession
	for rows.Next() {
		var rec session.PlatformSession
		var identity, platform, encrypted string
		var sourceURL sql.NullString

		if err := rows.Scan(&identity, &platform, &rec.InternalSessionID,
			&rec.Cookie.Name, &encrypted, &sourceURL, &rec.CapturedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan platform session: %w", err)
		}

		value, err := security.Decrypt(encrypted, s.aesKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt cookie value: %w", err)
		}

		rec.Identity = session.Identity(identity)
		rec.Platform = session.Platform(platform)
		rec.Cookie.Value = value
		if sourceURL.Valid {
			rec.SourceURL = sourceURL.String
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// CreateInternalSession persists a newly minted browser correlation id.
func (s *Store) CreateInternalSession(ctx context.Context, sess *session.InternalSession) error {
	query := `INSERT INTO internal_sessions (id, created_at, expires_at) VALUES (?, ?, ?)`
	if _, err := s.conn.ExecContext(ctx, query, sess.ID, sess.CreatedAt, sess.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create internal session: %w", err)
	}
	return nil
}

// GetInternalSession returns the internal session for id, or (nil, nil) when
// it does not exist or has expired.
func (s *Store) GetInternalSession(ctx context.Context, id string) (*session.InternalSession, error) {
	query := `SELECT id, created_at, expires_at FROM internal_sessions WHERE id = ?`

	var sess session.InternalSession
	err := s.conn.QueryRowContext(ctx, query, id).Scan(&sess.ID, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get internal session: %w", err)
	}
	if sess.Expired() {
		return nil, nil
	}
	return &sess, nil
}

// DeleteInternalSession removes an internal session on explicit logout.
func (s *Store) DeleteInternalSession(ctx context.Context, id string) error {
	query := `DELETE FROM internal_sessions WHERE id = ?`
	if _, err := s.conn.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete internal session: %w", err)
	}
	return nil
}
