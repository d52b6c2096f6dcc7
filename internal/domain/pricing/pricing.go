// Package pricing computes order totals in integer minor currency units.
//
// All arithmetic happens on cents so the figures stored on the order record
// agree exactly with the amounts sent to the payment provider. The only
// fractional step, applying a percentage discount, goes through
// shopspring/decimal and is rounded half-up to the nearest cent.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xenking/dinehall/internal/domain/discount"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a priced order line. UnitPriceCents and Name are snapshots
// taken at order time; later catalog changes never alter a placed order.
type LineItem struct {
	ItemID         string
	Name           string
	UnitPriceCents int64
	Quantity       int
	ImageURL       string
}

// Quote is the result of pricing a set of line items.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// InvalidLineItemError indicates a line item with a non-positive price or
// quantity.
type InvalidLineItemError struct {
	Index  int
	Reason string
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid line item %d: %s", e.Index, e.Reason)
}

// Price computes subtotal, discount, and total for the given line items and
// resolved tier (nil for no discount).
//
// discount = round-half-up(subtotal * percentage / 100) on the minor unit,
// the same derivation the provider applies through a percentage-off coupon,
// so the two systems agree to the cent.
func Price(items []LineItem, tier *discount.Tier) (Quote, error) {
	var subtotal int64
	for i, item := range items {
		if item.UnitPriceCents <= 0 {
			return Quote{}, &InvalidLineItemError{Index: i, Reason: "price must be greater than 0"}
		}
		if item.Quantity <= 0 {
			return Quote{}, &InvalidLineItemError{Index: i, Reason: "quantity must be greater than 0"}
		}
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}

	var discountCents int64
	if tier != nil {
		// decimal.Round rounds half away from zero, which is half-up for the
		// non-negative amounts possible here.
		discountCents = decimal.NewFromInt(subtotal).
			Mul(tier.Percentage).
			Div(hundred).
			Round(0).
			IntPart()
		if discountCents > subtotal {
			discountCents = subtotal
		}
	}

	return Quote{
		SubtotalCents: subtotal,
		DiscountCents: discountCents,
		TotalCents:    subtotal - discountCents,
	}, nil
}
