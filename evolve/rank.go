// Package evolve implements the selection side of the evolution strategy:
// rank-based fitness shaping and elite selection.
package evolve

import "sort"

// Ranks returns, for each score, the index of that score's first occurrence
// in the ascending sort of all scores. Equal scores share a rank, so with
// many ties the ranks do not cover 0..N-1.
func Ranks(scores []float64) []int {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	ranks := make([]int, len(scores))
	for i, s := range scores {
		ranks[i] = sort.SearchFloat64s(sorted, s)
	}
	return ranks
}

// Phi maps scores to fitness weights in [-1, 1] by rank:
// phi = -1 + 2*rank/(N-1). The best score gets +1 and the worst -1 regardless
// of the raw score scale. A single score maps to 0.
func Phi(scores []float64) []float64 {
	n := len(scores)
	weights := make([]float64, n)
	if n < 2 {
		return weights
	}

	for i, r := range Ranks(scores) {
		weights[i] = -1 + 2*float64(r)/float64(n-1)
	}
	return weights
}
