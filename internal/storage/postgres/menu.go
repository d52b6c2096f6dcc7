package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/dinehall/internal/domain/menu"
)

const (
	menuColumns = `id, name, description, category, price_cents, image_url, available, created_at, updated_at`

	listMenuSQL = `SELECT ` + menuColumns + ` FROM menu_items ORDER BY category, name`

	listMenuByCategorySQL = `SELECT ` + menuColumns + ` FROM menu_items
		WHERE category = $1 ORDER BY name`

	getMenuItemSQL = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`

	createMenuItemSQL = `INSERT INTO menu_items
		(id, name, description, category, price_cents, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateMenuItemSQL = `UPDATE menu_items
		SET name = $2, description = $3, category = $4, price_cents = $5,
		    image_url = $6, available = $7, updated_at = now()
		WHERE id = $1`

	deleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository implements menu.Repository backed by PostgreSQL.
type MenuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a MenuRepository that uses the given pool.
func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

// List returns all menu items ordered by category, then name.
func (r *MenuRepository) List(ctx context.Context) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// ListByCategory returns menu items within a category ordered by name.
func (r *MenuRepository) ListByCategory(ctx context.Context, category string) ([]menu.Item, error) {
	rows, err := r.pool.Query(ctx, listMenuByCategorySQL, category)
	if err != nil {
		return nil, fmt.Errorf("listing menu items in %q: %w", category, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByID returns a single menu item by id.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*menu.Item, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, menu.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &item, nil
}

// Create persists a new menu item.
func (r *MenuRepository) Create(ctx context.Context, item *menu.Item) error {
	_, err := r.pool.Exec(ctx, createMenuItemSQL,
		item.ID, item.Name, item.Description, item.Category,
		item.PriceCents, item.ImageURL, item.Available)
	if err != nil {
		return fmt.Errorf("creating menu item %q: %w", item.ID, err)
	}
	return nil
}

// Update overwrites an existing menu item.
func (r *MenuRepository) Update(ctx context.Context, item *menu.Item) error {
	tag, err := r.pool.Exec(ctx, updateMenuItemSQL,
		item.ID, item.Name, item.Description, item.Category,
		item.PriceCents, item.ImageURL, item.Available)
	if err != nil {
		return fmt.Errorf("updating menu item %q: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// Delete removes a menu item.
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("deleting menu item %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (menu.Item, error) {
	var item menu.Item
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Category,
		&item.PriceCents, &item.ImageURL, &item.Available,
		&item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}
