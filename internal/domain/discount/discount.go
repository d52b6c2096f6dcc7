// Package discount implements loyalty discount tiers and the resolution of
// the tier a customer qualifies for based on cumulative spend.
package discount

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested tier does not exist.
var ErrNotFound = errors.New("discount tier not found")

// ErrInvalidTier is returned when a tier fails validation on create or update.
var ErrInvalidTier = errors.New("invalid discount tier")

var hundred = decimal.NewFromInt(100)

// Tier is a loyalty discount tier. A customer whose cumulative spend reaches
// MinSpendingCents qualifies for Percentage off their order subtotal.
type Tier struct {
	ID               string
	Name             string
	MinSpendingCents int64
	Percentage       decimal.Decimal
	Active           bool
	CreatedAt        time.Time
}

// Validate checks the tier's invariants: percentage within [0, 100] and a
// non-negative spending threshold.
func (t *Tier) Validate() error {
	if t.Name == "" {
		return errors.Wrap(ErrInvalidTier, "name required")
	}
	if t.MinSpendingCents < 0 {
		return errors.Wrap(ErrInvalidTier, "min spending must not be negative")
	}
	if t.Percentage.IsNegative() || t.Percentage.GreaterThan(hundred) {
		return errors.Wrap(ErrInvalidTier, "percentage must be within [0, 100]")
	}
	return nil
}

// Repository provides lookup and mutation of discount tiers.
type Repository interface {
	ListActive(ctx context.Context) ([]Tier, error)
	List(ctx context.Context) ([]Tier, error)
	GetByID(ctx context.Context, id string) (*Tier, error)
	Create(ctx context.Context, t *Tier) error
	Update(ctx context.Context, t *Tier) error
	Delete(ctx context.Context, id string) error
}
