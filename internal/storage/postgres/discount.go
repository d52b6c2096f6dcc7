package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/dinehall/internal/domain/discount"
)

const (
	discountColumns = `id, name, min_spending_cents, percentage, active, created_at`

	listActiveDiscountsSQL = `SELECT ` + discountColumns + ` FROM discounts
		WHERE active ORDER BY min_spending_cents DESC`

	listDiscountsSQL = `SELECT ` + discountColumns + ` FROM discounts
		ORDER BY min_spending_cents ASC`

	getDiscountSQL = `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1`

	createDiscountSQL = `INSERT INTO discounts (id, name, min_spending_cents, percentage, active)
		VALUES ($1, $2, $3, $4, $5)`

	updateDiscountSQL = `UPDATE discounts
		SET name = $2, min_spending_cents = $3, percentage = $4, active = $5
		WHERE id = $1`

	deleteDiscountSQL = `DELETE FROM discounts WHERE id = $1`
)

var _ discount.Repository = (*DiscountRepository)(nil)

// DiscountRepository implements discount.Repository backed by PostgreSQL.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

// NewDiscountRepository returns a DiscountRepository that uses the given pool.
func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

// ListActive returns active tiers ordered by threshold descending. The
// resolver does not rely on this ordering; it sorts locally.
func (r *DiscountRepository) ListActive(ctx context.Context) ([]discount.Tier, error) {
	rows, err := r.pool.Query(ctx, listActiveDiscountsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing active discounts: %w", err)
	}
	return pgx.CollectRows(rows, scanTier)
}

// List returns all tiers ordered by threshold ascending.
func (r *DiscountRepository) List(ctx context.Context) ([]discount.Tier, error) {
	rows, err := r.pool.Query(ctx, listDiscountsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing discounts: %w", err)
	}
	return pgx.CollectRows(rows, scanTier)
}

// GetByID returns a single tier by id.
func (r *DiscountRepository) GetByID(ctx context.Context, id string) (*discount.Tier, error) {
	rows, err := r.pool.Query(ctx, getDiscountSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting discount %q: %w", id, err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, discount.ErrNotFound
		}
		return nil, fmt.Errorf("getting discount %q: %w", id, err)
	}
	return &t, nil
}

// Create persists a new tier.
func (r *DiscountRepository) Create(ctx context.Context, t *discount.Tier) error {
	_, err := r.pool.Exec(ctx, createDiscountSQL,
		t.ID, t.Name, t.MinSpendingCents, t.Percentage, t.Active)
	if err != nil {
		return fmt.Errorf("creating discount %q: %w", t.ID, err)
	}
	return nil
}

// Update overwrites an existing tier.
func (r *DiscountRepository) Update(ctx context.Context, t *discount.Tier) error {
	tag, err := r.pool.Exec(ctx, updateDiscountSQL,
		t.ID, t.Name, t.MinSpendingCents, t.Percentage, t.Active)
	if err != nil {
		return fmt.Errorf("updating discount %q: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrNotFound
	}
	return nil
}

// Delete removes a tier.
func (r *DiscountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteDiscountSQL, id)
	if err != nil {
		return fmt.Errorf("deleting discount %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return discount.ErrNotFound
	}
	return nil
}

func scanTier(row pgx.CollectableRow) (discount.Tier, error) {
	var t discount.Tier
	err := row.Scan(&t.ID, &t.Name, &t.MinSpendingCents, &t.Percentage, &t.Active, &t.CreatedAt)
	return t, err
}
