// internal/metrics/ratio.go
package metrics

import (
	"math"
	"sort"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// Rate converts a numerator sum and denominator count into a percentage.
// A zero denominator yields a null cell, never an error and never zero:
// "no orders" and "0% on time" are different facts.
func Rate(numerator, denominator float64) table.Cell {
	if denominator == 0 {
		return table.Null()
	}
	return table.Number(numerator / denominator * 100)
}

// Share is a group's percentage of a report-wide total. Null at zero total.
// Across all groups of one report the shares sum to 100 within rounding
// tolerance.
func Share(part, total float64) table.Cell {
	return Rate(part, total)
}

// FillRate is delivered quantity as a percentage of ordered quantity.
// Null when nothing was ordered.
func FillRate(delivered, ordered float64) table.Cell {
	return Rate(delivered, ordered)
}

// RetentionRate computes the share of the full customer universe active in
// every period. periods holds one set of active customer identifiers per
// period label. With zero periods retention is undefined (null), not 0 or
// 100. Also returns the retained count and the universe size.
func RetentionRate(periods [][]string) (table.Cell, int, int) {
	if len(periods) == 0 {
		return table.Null(), 0, 0
	}

	universe := make(map[string]struct{})
	inAll := make(map[string]int)
	for _, period := range periods {
		seen := make(map[string]struct{}, len(period))
		for _, id := range period {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			universe[id] = struct{}{}
			inAll[id]++
		}
	}

	retained := 0
	for _, n := range inAll {
		if n == len(periods) {
			retained++
		}
	}
	return Rate(float64(retained), float64(len(universe))), retained, len(universe)
}

// TopKContribution returns the share of the total attributable to the top
// frac of values (Pareto). It takes ceil(n*frac) entries, at least one when
// any values exist, and is defined as 0 for an empty input.
func TopKContribution(values []float64, frac float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	k := int(math.Ceil(float64(n) * frac))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	var top, total float64
	for i, v := range sorted {
		total += v
		if i < k {
			top += v
		}
	}
	if total == 0 {
		return 0
	}
	return top / total * 100
}
