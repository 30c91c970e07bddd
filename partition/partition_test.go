package partition

import (
	"testing"

	"github.com/hupe1980/bagtensor/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform_RemainderInLastBlock(t *testing.T) {
	plan, err := Uniform(10, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 2, 4}, plan.Sizes())
	assert.Equal(t, Plan{{0, 2}, {2, 2}, {4, 2}, {6, 4}}, plan)
	require.NoError(t, plan.Validate(10))
}

func TestUniform_SingleBlock(t *testing.T) {
	plan, err := Uniform(7, 1)
	require.NoError(t, err)
	assert.Equal(t, Plan{{0, 7}}, plan)
}

func TestUniform_AllLengthsAndK(t *testing.T) {
	for length := 1; length <= 40; length++ {
		for k := 1; k <= length; k++ {
			plan, err := Uniform(length, k)
			require.NoError(t, err)
			require.Len(t, plan, k)
			require.NoError(t, plan.Validate(length), "length=%d k=%d", length, k)

			step := length / k
			for i := 0; i < k-1; i++ {
				assert.Equal(t, step, plan[i].Size)
			}
			last := plan[k-1].Size
			assert.GreaterOrEqual(t, last, step)
			assert.LessOrEqual(t, last, step+k-1)
		}
	}
}

func TestUniform_EmptyAxis(t *testing.T) {
	plan, err := Uniform(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, plan.Sizes())
	require.NoError(t, plan.Validate(0))
}

func TestUniform_InvalidK(t *testing.T) {
	_, err := Uniform(10, 0)
	assert.ErrorIs(t, err, ErrInvalidShardCount)
}

func TestWeighted_BalancesOccurrences(t *testing.T) {
	// cum = 10 18 24 28 31 33 34 35, total 35, step 11.
	weights := []uint64{10, 8, 6, 4, 3, 2, 1, 1}
	plan, err := Weighted(weights, 3)
	require.NoError(t, err)
	require.NoError(t, plan.Validate(len(weights)))

	// Cut 11 -> key 1, cut 22 -> key 2, last block takes the rest.
	assert.Equal(t, Plan{{0, 2}, {2, 1}, {3, 5}}, plan)
}

func TestWeighted_HeavyWordLeavesEmptyBlocks(t *testing.T) {
	plan, err := Weighted([]uint64{100, 1, 1}, 3)
	require.NoError(t, err)
	require.NoError(t, plan.Validate(3))
	assert.Equal(t, []int{1, 0, 2}, plan.Sizes())
}

func TestWeighted_Properties(t *testing.T) {
	weights := make([]uint64, 50)
	for i := range weights {
		weights[i] = uint64(50 - i)
	}
	for k := 1; k <= len(weights); k++ {
		plan, err := Weighted(weights, k)
		require.NoError(t, err)
		require.Len(t, plan, k)
		require.NoError(t, plan.Validate(len(weights)), "k=%d", k)
	}
}

func TestWeighted_Degenerate(t *testing.T) {
	plan, err := Weighted(nil, 2)
	require.NoError(t, err)
	require.NoError(t, plan.Validate(0))

	plan, err = Weighted([]uint64{0, 0, 0, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, plan.Sizes())

	plan, err = Weighted([]uint64{3, 4}, 1)
	require.NoError(t, err)
	assert.Equal(t, Plan{{0, 2}}, plan)

	_, err = Weighted([]uint64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidShardCount)
}

func TestPlan_Validate(t *testing.T) {
	assert.ErrorIs(t, Plan{}.Validate(0), ErrInvalidPlan)
	assert.ErrorIs(t, Plan{{0, 2}, {3, 1}}.Validate(4), ErrInvalidPlan)
	assert.ErrorIs(t, Plan{{0, 2}, {1, 3}}.Validate(4), ErrInvalidPlan)
	assert.ErrorIs(t, Plan{{0, 2}, {2, 1}}.Validate(4), ErrInvalidPlan)
	assert.ErrorIs(t, Plan{{0, -1}}.Validate(0), ErrInvalidPlan)
}

func TestPlan_Locate(t *testing.T) {
	plan := Plan{{0, 1}, {1, 0}, {1, 2}}
	i, ok := plan.Locate(0)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = plan.Locate(2)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = plan.Locate(3)
	assert.False(t, ok)
	assert.True(t, plan[2].Contains(1))
}

func TestApply(t *testing.T) {
	entries := tensor.EntrySet{
		{User: 0, Item: 3, Word: 1, Count: 1},
		{User: 4, Item: 0, Word: 0, Count: 2},
		{User: 9, Item: 1, Word: 2, Count: 1},
		{User: 5, Item: 1, Word: 1, Count: 5},
	}

	plan, err := Uniform(10, 4)
	require.NoError(t, err)

	parts, err := Apply(entries, plan, tensor.ModeUser)
	require.NoError(t, err)
	require.Len(t, parts, 4)

	total := 0
	for i, p := range parts {
		assert.Equal(t, i, p.Index)
		for _, e := range p.Entries {
			assert.True(t, p.Contains(e.User))
		}
		total += p.Entries.Len()
	}
	assert.Equal(t, entries.Len(), total)
	assert.Len(t, parts[3].Entries, 1)

	single, err := Apply(entries, Plan{{0, 10}}, tensor.ModeUser)
	require.NoError(t, err)
	assert.Equal(t, entries, single[0].Entries)

	_, err = Apply(entries, Plan{{0, 2}}, tensor.ModeItem)
	assert.ErrorIs(t, err, ErrKeyOutOfRange)
}
