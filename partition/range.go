package partition

import (
	"fmt"
	"sort"
)

// Uniform divides length keys into k blocks of length/k keys each, with the
// last block absorbing the remainder.
//
// For length 10 and k 4 the sizes are [2, 2, 2, 4].
func Uniform(length, k int) (Plan, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, k)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidPlan, length)
	}

	step := length / k
	plan := make(Plan, k)
	for i := 0; i < k-1; i++ {
		plan[i] = Range{Offset: i * step, Size: step}
	}
	plan[k-1] = Range{Offset: (k - 1) * step, Size: length - (k-1)*step}
	return plan, nil
}

// Weighted divides the keys [0, len(weights)) into k blocks carrying roughly
// equal total weight.
//
// The total weight W is cut at (i+1)*(W/k) for the first k-1 blocks. Each cut
// is mapped to the first key whose cumulative weight reaches it, and that key
// closes its block. The last block always ends at the final key.
func Weighted(weights []uint64, k int) (Plan, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, k)
	}
	n := len(weights)
	if n == 0 {
		return make(Plan, k), nil
	}

	cum := make([]uint64, n)
	var total uint64
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	if total == 0 {
		return Uniform(n, k)
	}

	step := total / uint64(k)
	plan := make(Plan, k)
	offset := 0
	for i := 0; i < k; i++ {
		last := n - 1
		if i < k-1 {
			boundary := uint64(i+1) * step
			last = sort.Search(n, func(j int) bool { return cum[j] >= boundary })
			last = min(last, n-1)
		}
		// A heavy key can close several boundaries at once; later blocks
		// are then empty.
		size := max(last-offset+1, 0)
		plan[i] = Range{Offset: offset, Size: size}
		offset += size
	}
	return plan, nil
}
