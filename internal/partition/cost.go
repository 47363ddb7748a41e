package partition

import "golang.org/x/exp/constraints"

// Cost scores the partition in (0, 1]; lower is more informative.
//
// The answer lands in a bucket with probability proportional to the bucket's
// size, and what is left to search afterwards is that size again, so the
// expected remaining work is proportional to the sum of squared bucket sizes.
// Dividing by N² (everything in one bucket, nothing learned) pins the useless
// guess at 1.0; p equal buckets score 1/p.
//
// Cost panics on an empty histogram; corpora must be non-empty.
func (h Histogram) Cost() float64 {
	n := h.Total()
	if n == 0 {
		panic("partition: cost of empty histogram")
	}
	upper := float64(n) * float64(n)
	return float64(h.SumSquares()) / upper
}

// SumSquares returns the unnormalized cost, sum(size²).
func (h Histogram) SumSquares() int64 {
	var s int64
	for _, v := range h {
		s += int64(v) * int64(v)
	}
	return s
}

func sum[K comparable, V constraints.Integer](m map[K]V) int {
	var s V
	for _, v := range m {
		s += v
	}
	return int(s)
}
