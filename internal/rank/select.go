package rank

import "golang.org/x/exp/slices"

// Select returns the k lowest-cost results ascending and the k highest-cost
// results descending. Equal costs keep their order in results, so the output
// is a pure function of the input sequence.
func Select(results []Result, k int) Ranking {
	r := Ranking{Best: []Result{}, Worst: []Result{}, Evaluated: len(results)}
	if k <= 0 || len(results) == 0 {
		return r
	}
	if k > len(results) {
		k = len(results)
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b Result) int { return compareCost(a.Cost, b.Cost) })
	r.Best = slices.Clone(sorted[:k])

	slices.SortStableFunc(sorted, func(a, b Result) int { return compareCost(b.Cost, a.Cost) })
	r.Worst = slices.Clone(sorted[:k])
	return r
}

func compareCost(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
