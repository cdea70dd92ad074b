package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rcanepa/docker-testdriven-app/internal/models"
)

type RevokedTokenRepo struct {
	DB DBTX
}

const revokeToken = `-- name: RevokeToken
INSERT INTO revoked_tokens (token)
VALUES ($1)
ON CONFLICT (token) DO NOTHING
`

// Put token to the blacklist
// ON CONFLICT keeps the original revoked_at, so revoking twice is a no-op
func (r *RevokedTokenRepo) Revoke(ctx context.Context, token string) error {
	_, err := r.DB.Exec(ctx, revokeToken, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const isTokenRevoked = `-- name: IsTokenRevoked
SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)
`

func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := r.DB.QueryRow(ctx, isTokenRevoked, token).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return revoked, nil
}

const getRevokedToken = `-- name: GetRevokedToken
SELECT token, revoked_at
FROM revoked_tokens
WHERE token = $1
`

// Get returns the blacklist entry for the token
func (r *RevokedTokenRepo) Get(ctx context.Context, token string) (models.RevokedToken, error) {
	var t models.RevokedToken
	err := r.DB.QueryRow(ctx, getRevokedToken, token).Scan(&t.Token, &t.RevokedAt)

	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, pgx.ErrNoRows):
		return t, fmt.Errorf("token is not blacklisted: %w", err)
	default:
		return t, fmt.Errorf("db error: %w", err)
	}
}
