package partition

import (
	"fmt"

	"github.com/hupe1980/bagtensor/tensor"
)

// Part is one block of a plan together with the entries whose mode key falls
// into it.
type Part struct {
	Index int
	Range
	Entries tensor.EntrySet
}

// Apply distributes entries over the blocks of plan by their key along mode.
// The returned parts are in plan order; every entry lands in exactly one part.
func Apply(entries tensor.EntrySet, plan Plan, mode tensor.Mode) ([]Part, error) {
	parts := make([]Part, len(plan))
	for i, r := range plan {
		parts[i] = Part{Index: i, Range: r}
	}

	for _, e := range entries {
		key := mode.Key(e)
		i, ok := plan.Locate(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s key %d, plan covers %d", ErrKeyOutOfRange, mode, key, plan.Length())
		}
		parts[i].Entries = append(parts[i].Entries, e)
	}
	return parts, nil
}
