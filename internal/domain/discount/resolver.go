package discount

import "sort"

// Resolve returns the richest active tier the customer qualifies for: among
// active tiers with MinSpendingCents <= totalSpentCents, the one with the
// highest threshold. It returns nil when no tier qualifies.
//
// Resolve is pure: it never mutates its input and depends only on its
// arguments, so the client estimate path and the authoritative payment path
// produce identical results for identical input. The sort is performed
// locally on a copy so callers need not pre-order tiers.
func Resolve(totalSpentCents int64, tiers []Tier) *Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinSpendingCents > sorted[j].MinSpendingCents
	})

	for i := range sorted {
		t := &sorted[i]
		if !t.Active {
			continue
		}
		if totalSpentCents >= t.MinSpendingCents {
			return t
		}
	}
	return nil
}
