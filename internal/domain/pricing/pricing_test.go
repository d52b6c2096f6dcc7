package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/dinehall/internal/domain/discount"
)

func pct(v string) *discount.Tier {
	return &discount.Tier{
		ID:         "tier",
		Name:       "tier",
		Percentage: decimal.RequireFromString(v),
		Active:     true,
	}
}

func TestPrice_NoDiscount(t *testing.T) {
	q, err := Price([]LineItem{
		{ItemID: "m1", Name: "Waffle", UnitPriceCents: 650, Quantity: 2},
		{ItemID: "m2", Name: "Coffee", UnitPriceCents: 300, Quantity: 1},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1600), q.SubtotalCents)
	assert.Equal(t, int64(0), q.DiscountCents)
	assert.Equal(t, int64(1600), q.TotalCents)
}

func TestPrice_PercentageDiscount(t *testing.T) {
	q, err := Price([]LineItem{
		{ItemID: "m1", UnitPriceCents: 5000, Quantity: 2},
	}, pct("10"))

	require.NoError(t, err)
	assert.Equal(t, int64(10000), q.SubtotalCents)
	assert.Equal(t, int64(1000), q.DiscountCents)
	assert.Equal(t, int64(9000), q.TotalCents)
}

func TestPrice_RoundsHalfUpOnMinorUnit(t *testing.T) {
	// Subtotal 55, 10% -> 5.5 -> 6 under round-half-up.
	q, err := Price([]LineItem{
		{ItemID: "m1", UnitPriceCents: 20, Quantity: 2},
		{ItemID: "m2", UnitPriceCents: 15, Quantity: 1},
	}, pct("10"))

	require.NoError(t, err)
	assert.Equal(t, int64(55), q.SubtotalCents)
	assert.Equal(t, int64(6), q.DiscountCents)
	assert.Equal(t, int64(49), q.TotalCents)
}

func TestPrice_RoundsDownBelowHalf(t *testing.T) {
	// Subtotal 54, 10% -> 5.4 -> 5.
	q, err := Price([]LineItem{
		{ItemID: "m1", UnitPriceCents: 27, Quantity: 2},
	}, pct("10"))

	require.NoError(t, err)
	assert.Equal(t, int64(5), q.DiscountCents)
	assert.Equal(t, int64(49), q.TotalCents)
}

func TestPrice_FractionalPercentage(t *testing.T) {
	// 12.5% of 1000 = 125 exactly.
	q, err := Price([]LineItem{
		{ItemID: "m1", UnitPriceCents: 1000, Quantity: 1},
	}, pct("12.5"))

	require.NoError(t, err)
	assert.Equal(t, int64(125), q.DiscountCents)
}

func TestPrice_FullDiscount(t *testing.T) {
	q, err := Price([]LineItem{
		{ItemID: "m1", UnitPriceCents: 999, Quantity: 1},
	}, pct("100"))

	require.NoError(t, err)
	assert.Equal(t, int64(999), q.DiscountCents)
	assert.Equal(t, int64(0), q.TotalCents)
}

func TestPrice_Invariants(t *testing.T) {
	items := []LineItem{
		{ItemID: "m1", UnitPriceCents: 333, Quantity: 3},
		{ItemID: "m2", UnitPriceCents: 101, Quantity: 7},
	}

	for _, p := range []string{"0", "1", "7.77", "33.3", "50", "99.9", "100"} {
		q, err := Price(items, pct(p))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.DiscountCents, int64(0), "pct=%s", p)
		assert.LessOrEqual(t, q.DiscountCents, q.SubtotalCents, "pct=%s", p)
		assert.Equal(t, q.SubtotalCents-q.DiscountCents, q.TotalCents, "pct=%s", p)
	}
}

func TestPrice_RejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
	}{
		{"zero price", LineItem{ItemID: "m1", UnitPriceCents: 0, Quantity: 1}},
		{"negative price", LineItem{ItemID: "m1", UnitPriceCents: -100, Quantity: 1}},
		{"zero quantity", LineItem{ItemID: "m1", UnitPriceCents: 100, Quantity: 0}},
		{"negative quantity", LineItem{ItemID: "m1", UnitPriceCents: 100, Quantity: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price([]LineItem{tt.item}, nil)

			var invalid *InvalidLineItemError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, 0, invalid.Index)
		})
	}
}

func TestPrice_EmptyItems(t *testing.T) {
	q, err := Price(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Quote{}, q)
}
