// Package payment defines the port to the external payment provider.
//
// The provider is the source of truth for payment status: verification always
// re-queries the provider rather than trusting anything asserted by the
// returning client.
package payment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrSessionNotFound is returned when the provider does not know the session.
var ErrSessionNotFound = errors.New("payment session not found")

// SessionItem is one provider-side line item, priced in minor currency units.
type SessionItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int
	ImageURL        string
}

// CreateSessionParams describes a hosted checkout session to create.
//
// OrderID is embedded in the session's metadata so reconciliation can always
// recover the order, even if persisting the session id onto the order failed.
type CreateSessionParams struct {
	OrderID        string
	CustomerID     string
	Currency       string
	Items          []SessionItem
	PaymentMethods []string

	// PercentOff, when set, attaches a once-off percentage coupon. The
	// percentage (not a precomputed amount) is passed so the provider derives
	// the discount from its own line-item sum the same way the order record
	// does.
	PercentOff *decimal.Decimal
}

// Session is a created provider session the customer is redirected to.
type Session struct {
	ID              string
	URL             string
	PaymentIntentID string
}

// SessionStatus is the provider's authoritative view of a session.
type SessionStatus struct {
	ID              string
	Paid            bool
	PaymentIntentID string

	// OrderID is recovered from the session metadata.
	OrderID string
}

// Provider creates hosted checkout sessions and reports their status.
type Provider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error)
}
