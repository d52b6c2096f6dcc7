package discount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(id string, minSpending int64, pct string, active bool) Tier {
	return Tier{
		ID:               id,
		Name:             id,
		MinSpendingCents: minSpending,
		Percentage:       decimal.RequireFromString(pct),
		Active:           active,
	}
}

func TestResolve_RichestQualifyingTier(t *testing.T) {
	tiers := []Tier{
		tier("A", 50, "5", true),
		tier("B", 100, "10", true),
		tier("C", 200, "15", true),
	}

	tests := []struct {
		name       string
		totalSpent int64
		wantID     string
	}{
		{"between A and B", 75, "A"},
		{"between B and C", 150, "B"},
		{"above C", 500, "C"},
		{"exactly at threshold", 100, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.totalSpent, tiers)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolve_NoQualifyingTier(t *testing.T) {
	tiers := []Tier{
		tier("A", 50, "5", true),
		tier("B", 100, "10", true),
	}

	assert.Nil(t, Resolve(10, tiers))
	assert.Nil(t, Resolve(0, tiers))
}

func TestResolve_EmptyTiers(t *testing.T) {
	assert.Nil(t, Resolve(1000, nil))
}

func TestResolve_InactiveNeverSelected(t *testing.T) {
	tiers := []Tier{
		tier("A", 50, "5", true),
		tier("C", 200, "15", false),
	}

	got := Resolve(500, tiers)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.ID)

	// All inactive: nothing qualifies.
	assert.Nil(t, Resolve(500, []Tier{tier("C", 200, "15", false)}))
}

func TestResolve_InputOrderIrrelevant(t *testing.T) {
	ascending := []Tier{
		tier("A", 50, "5", true),
		tier("B", 100, "10", true),
		tier("C", 200, "15", true),
	}
	descending := []Tier{ascending[2], ascending[1], ascending[0]}
	shuffled := []Tier{ascending[1], ascending[2], ascending[0]}

	for _, tiers := range [][]Tier{ascending, descending, shuffled} {
		got := Resolve(150, tiers)
		require.NotNil(t, got)
		assert.Equal(t, "B", got.ID)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	tiers := []Tier{
		tier("A", 50, "5", true),
		tier("B", 100, "10", true),
	}

	first := Resolve(120, tiers)
	second := Resolve(120, tiers)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	tiers := []Tier{
		tier("A", 50, "5", true),
		tier("C", 200, "15", true),
		tier("B", 100, "10", true),
	}

	Resolve(500, tiers)

	assert.Equal(t, "A", tiers[0].ID)
	assert.Equal(t, "C", tiers[1].ID)
	assert.Equal(t, "B", tiers[2].ID)
}

func TestResolve_TieBrokenByInputOrder(t *testing.T) {
	tiers := []Tier{
		tier("first", 100, "10", true),
		tier("second", 100, "12", true),
	}

	got := Resolve(150, tiers)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.ID)
}

func TestTierValidate(t *testing.T) {
	valid := tier("A", 50, "5", true)
	require.NoError(t, valid.Validate())

	negative := tier("A", -1, "5", true)
	assert.ErrorIs(t, negative.Validate(), ErrInvalidTier)

	over := tier("A", 50, "101", true)
	assert.ErrorIs(t, over.Validate(), ErrInvalidTier)

	unnamed := tier("", 50, "5", true)
	unnamed.Name = ""
	assert.ErrorIs(t, unnamed.Validate(), ErrInvalidTier)
}
