package service

import (
	"sort"

	"partners_lounge/internal/domain/entity"
)

// Summary is the reduction of a valued collection.
type Summary struct {
	TotalValueUSD float64
	Count         int
}

// Rank returns a copy of records sorted by magnitude, largest first.
// Records of equal magnitude keep their input order.
func Rank[T any](records []T, magnitude func(T) float64) []T {
	ranked := make([]T, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return magnitude(ranked[i]) > magnitude(ranked[j])
	})
	return ranked
}

// RankHolders ranks a raw holder list by display amount.
func RankHolders(records []entity.HolderRecord) []entity.HolderRecord {
	return Rank(records, func(r entity.HolderRecord) float64 { return r.UIAmount })
}

// RankHoldings ranks a priced portfolio by USD value.
func RankHoldings(items []entity.ValuedHolding) []entity.ValuedHolding {
	return Rank(items, func(h entity.ValuedHolding) float64 { return h.ValueUSD })
}

// Summarize sums and counts items. It does no filtering.
func Summarize(items []entity.ValuedHolding) Summary {
	s := Summary{Count: len(items)}
	for _, it := range items {
		s.TotalValueUSD += it.ValueUSD
	}
	return s
}

// SummarizeHolders totals a holder list valued at a single price.
func SummarizeHolders(records []entity.HolderRecord, priceUSD float64) entity.HolderSummary {
	s := entity.HolderSummary{Count: len(records)}
	for _, r := range records {
		s.TotalUIAmount += r.UIAmount
	}
	s.TotalValueUSD = s.TotalUIAmount * priceUSD
	return s
}

// ApplyAllocation sets AllocationPercent of each item against the collection total, in place.
// All percentages are 0 when the total is not positive.
func ApplyAllocation(items []entity.ValuedHolding) {
	total := Summarize(items).TotalValueUSD
	for i := range items {
		if total > 0 {
			items[i].AllocationPercent = items[i].ValueUSD / total * 100
		} else {
			items[i].AllocationPercent = 0
		}
	}
}
