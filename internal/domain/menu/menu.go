// Package menu defines the catalog of orderable items.
package menu

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// ErrInvalidItem is returned when an item fails validation on create or update.
var ErrInvalidItem = errors.New("invalid menu item")

// Item is a catalog entry. Prices are integer minor currency units; orders
// snapshot the price at placement time, so editing an item never changes
// already placed orders.
type Item struct {
	ID          string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the item's invariants.
func (i *Item) Validate() error {
	if i.Name == "" {
		return errors.Wrap(ErrInvalidItem, "name required")
	}
	if i.PriceCents <= 0 {
		return errors.Wrap(ErrInvalidItem, "price must be greater than 0")
	}
	return nil
}

// Repository defines persistence operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	ListByCategory(ctx context.Context, category string) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}
