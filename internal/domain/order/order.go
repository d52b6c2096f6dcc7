// Package order implements the order lifecycle: checkout, payment
// verification, and the forward-only status state machine.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for checkout validation. Validation failures happen before
// any side effect, so retrying after fixing the input is always safe.
var (
	ErrEmptyItems       = errors.New("items required")
	ErrNameRequired     = errors.New("customer name is required")
	ErrMobileRequired   = errors.New("customer mobile is required")
	ErrNotFound         = errors.New("order not found")
	ErrSessionUnknown   = errors.New("payment session does not reference an order")
	ErrNotAuthenticated = errors.New("authentication required")
)

// InvalidTransitionError indicates a status update that would move an order
// backwards or along an undefined edge. The stored record is unchanged.
type InvalidTransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: invalid status transition %s -> %s", e.OrderID, e.From, e.To)
}

// LineItem is an order line snapshotted at placement time. Catalog edits
// after placement never alter these values.
type LineItem struct {
	ItemID         string `json:"id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"price"`
	Quantity       int    `json:"quantity"`
	ImageURL       string `json:"image_url,omitempty"`
}

// Order is a placed customer order. Monetary fields are integer minor
// currency units and satisfy total = subtotal - discount at all times.
type Order struct {
	ID               string
	CustomerID       string // empty for anonymous orders
	CustomerName     string
	CustomerMobile   string
	TableNumber      string
	Items            []LineItem
	SubtotalCents    int64
	DiscountCents    int64
	TotalCents       int64
	Currency         string
	Status           Status
	PaymentSessionID string
	PaymentIntentID  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// Repository defines persistence operations for orders. Every write is a
// single atomic update keyed by order id.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)

	// AttachPaymentSession persists the provider session id (and payment
	// intent id, when known) onto the order.
	AttachPaymentSession(ctx context.Context, orderID, sessionID, intentID string) error

	// UpdateStatus moves the order to the given status if and only if the
	// stored status is a valid predecessor. A backward or undefined
	// transition fails with *InvalidTransitionError and leaves the record
	// unchanged; under concurrent updates exactly one writer wins.
	UpdateStatus(ctx context.Context, orderID string, to Status) (*Order, error)
}
