package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/dinehall/internal/domain/auth"
)

const getSessionByHashSQL = `SELECT id, token_hash, customer_id, name, scopes, expires_at
	FROM sessions WHERE token_hash = $1`

var _ auth.Store = (*SessionStore)(nil)

// SessionStore provides session lookups backed by PostgreSQL.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore returns a SessionStore that uses the given pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// FindByHash looks up a session by the HMAC-SHA256 hash of its token.
// Returns auth.ErrNotFound when no matching session exists.
func (s *SessionStore) FindByHash(ctx context.Context, hash string) (*auth.Session, error) {
	rows, err := s.pool.Query(ctx, getSessionByHashSQL, hash)
	if err != nil {
		return nil, fmt.Errorf("finding session by hash: %w", err)
	}
	sess, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (auth.Session, error) {
		var out auth.Session
		err := row.Scan(&out.ID, &out.TokenHash, &out.CustomerID, &out.Name, &out.Scopes, &out.ExpiresAt)
		return out, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("finding session by hash: %w", err)
	}
	return &sess, nil
}
