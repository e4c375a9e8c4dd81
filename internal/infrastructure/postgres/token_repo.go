package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const schema = `
	CREATE TABLE IF NOT EXISTS client_kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// DB is the subset of *pgxpool.Pool the token store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// TokenRepository keeps the access token in a key-value table so several
// client hosts can share one login.
type TokenRepository struct {
	db  DB
	key string
}

func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db, key: repository.TokenKey}
}

// EnsureSchema creates the key-value table if it does not exist yet.
func (r *TokenRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create client_kv: %w", err)
	}
	return nil
}

func (r *TokenRepository) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRow(ctx, `SELECT value FROM client_kv WHERE key = $1`, r.key).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (r *TokenRepository) Save(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO client_kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		r.key, token,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM client_kv WHERE key = $1`, r.key); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
