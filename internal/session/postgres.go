package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS storefront_sessions (
	id_hash           TEXT PRIMARY KEY,
	username          TEXT NOT NULL DEFAULT '',
	user_id           TEXT NOT NULL DEFAULT '',
	access_token      TEXT NOT NULL DEFAULT '',
	refresh_token     TEXT NOT NULL DEFAULT '',
	is_admin          BOOLEAN NOT NULL DEFAULT FALSE,
	access_expires_at TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	expires_at        TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps sessions in the storefront_sessions table. Rows are
// keyed by the SHA-256 of the session id; tokens are sealed.
type PostgresStore struct {
	db     *sql.DB
	sealer *Sealer
}

func NewPostgresStore(db *sql.DB, sealer *Sealer) *PostgresStore {
	return &PostgresStore{db: db, sealer: sealer}
}

// ConnectPostgres opens and pings a pooled connection.
func ConnectPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// EnsureSchema creates the sessions table when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		rec           record
		accessExpires sql.NullTime
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT username, user_id, access_token, refresh_token, is_admin, access_expires_at, created_at, expires_at
		 FROM storefront_sessions WHERE id_hash = $1 AND expires_at > NOW()`,
		hashID(id),
	).Scan(&rec.Username, &rec.UserID, &rec.AccessToken, &rec.RefreshToken, &rec.IsAdmin,
		&accessExpires, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if accessExpires.Valid {
		rec.AccessExpiresAt = accessExpires.Time
	}
	return p.sealer.open(id, rec)
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	rec, err := p.sealer.seal(s)
	if err != nil {
		return err
	}
	var accessExpires sql.NullTime
	if !rec.AccessExpiresAt.IsZero() {
		accessExpires = sql.NullTime{Time: rec.AccessExpiresAt, Valid: true}
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO storefront_sessions
		   (id_hash, username, user_id, access_token, refresh_token, is_admin, access_expires_at, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id_hash) DO UPDATE SET
		   username = EXCLUDED.username,
		   user_id = EXCLUDED.user_id,
		   access_token = EXCLUDED.access_token,
		   refresh_token = EXCLUDED.refresh_token,
		   is_admin = EXCLUDED.is_admin,
		   access_expires_at = EXCLUDED.access_expires_at,
		   expires_at = EXCLUDED.expires_at`,
		hashID(s.ID), rec.Username, rec.UserID, rec.AccessToken, rec.RefreshToken, rec.IsAdmin,
		accessExpires, rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM storefront_sessions WHERE id_hash = $1", hashID(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes rows past their TTL.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, "DELETE FROM storefront_sessions WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
