package recommend

import (
	"fmt"
	"math/rand"

	"github.com/example/dining-concierge/internal/internaltypes"
)

// SampleDistinct draws k distinct indices uniformly without replacement from
// [0, n). Repeated requests for the same cuisine should not always surface
// the same restaurants, hence the randomization. Fails fast when the pool is
// smaller than the sample instead of indexing out of range.
func SampleDistinct(r *rand.Rand, n, k int) ([]int, error) {
	if k < 0 {
		return nil, fmt.Errorf("sample size must not be negative, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: pool has %d candidates, need %d", internaltypes.ErrInsufficientCandidates, n, k)
	}
	return r.Perm(n)[:k], nil
}
