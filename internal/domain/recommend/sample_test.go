package recommend

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dining-concierge/internal/internaltypes"
)

func TestSampleDistinct(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		idx, err := SampleDistinct(r, 100, 3)
		require.NoError(t, err)
		require.Len(t, idx, 3)
		seen := map[int]bool{}
		for _, v := range idx {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 100)
			assert.False(t, seen[v], "indices must be distinct")
			seen[v] = true
		}
	}
}

func TestSampleDistinctExactPool(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	idx, err := SampleDistinct(r, 3, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, idx)
}

func TestSampleDistinctInsufficient(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	_, err := SampleDistinct(r, 2, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, internaltypes.ErrInsufficientCandidates)

	_, err = SampleDistinct(r, 0, 3)
	assert.ErrorIs(t, err, internaltypes.ErrInsufficientCandidates)
}
