// Package profile defines customer profiles and the cumulative spend figure
// the loyalty discount resolver reads.
package profile

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Profile is a known customer. TotalSpentCents is the running cumulative
// spend credited by payment reconciliation and read by discount resolution.
type Profile struct {
	ID              string
	Name            string
	Email           string
	TotalSpentCents int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository defines persistence operations for customer profiles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)

	// AddSpending atomically credits cents to the profile's cumulative spend,
	// creating the profile row if it does not exist yet.
	AddSpending(ctx context.Context, id string, cents int64) error
}
