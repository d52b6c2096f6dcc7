package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/dinehall/internal/domain/profile"
)

const (
	profileColumns = `id, name, email, total_spent_cents, created_at, updated_at`

	getProfileSQL = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	listProfilesSQL = `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`

	// Crediting spend is an atomic upsert: the profile row is created on
	// first credit if the auth system has not materialized it yet.
	addSpendingSQL = `INSERT INTO profiles (id, total_spent_cents)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET total_spent_cents = profiles.total_spent_cents + EXCLUDED.total_spent_cents,
		    updated_at = now()`
)

var _ profile.Repository = (*ProfileRepository)(nil)

// ProfileRepository implements profile.Repository backed by PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a ProfileRepository that uses the given pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByID returns a single profile by id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	rows, err := r.pool.Query(ctx, getProfileSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting profile %q: %w", id, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, fmt.Errorf("getting profile %q: %w", id, err)
	}
	return &p, nil
}

// List returns all profiles, newest first.
func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.pool.Query(ctx, listProfilesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	return pgx.CollectRows(rows, scanProfile)
}

// AddSpending atomically credits cents to the profile's cumulative spend.
func (r *ProfileRepository) AddSpending(ctx context.Context, id string, cents int64) error {
	if _, err := r.pool.Exec(ctx, addSpendingSQL, id, cents); err != nil {
		return fmt.Errorf("crediting spend for profile %q: %w", id, err)
	}
	return nil
}

func scanProfile(row pgx.CollectableRow) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.TotalSpentCents, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
