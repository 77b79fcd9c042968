package ensemble

import (
	"math/rand/v2"
	"sort"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// PCG stream identifiers. Each draw type gets its own stream so that the row
// and column draws of a round are independent.
const (
	bootstrapStream uint64 = 0x9e3779b97f4a7c15
	featureStream   uint64 = 0xbf58476d1ce4e5b9
)

// RoundSeed derives the seed of one training round from the ensemble seed.
func RoundSeed(seed uint64, round int) uint64 {
	return rand.New(rand.NewPCG(seed, uint64(round))).Uint64()
}

// Bootstrap draws size row indices uniformly with replacement from [0, n).
// The same (n, size, seed) always yields the same indices.
func Bootstrap(n, size int, seed uint64) ([]int, error) {
	if n < 1 {
		return nil, scierrors.NewConfigError("n", "must be >= 1", n)
	}
	if size < 1 {
		return nil, scierrors.NewConfigError("size", "must be >= 1", size)
	}
	rng := rand.New(rand.NewPCG(seed, bootstrapStream))
	rows := make([]int, size)
	for i := range rows {
		rows[i] = rng.IntN(n)
	}
	return rows, nil
}

// FeatureSubset draws k distinct column indices from [0, d) and returns them
// in ascending order.
func FeatureSubset(d, k int, seed uint64) ([]int, error) {
	if k < 1 || k > d {
		return nil, scierrors.NewConfigError("feature_subset_size", "must be in [1, d]", k)
	}
	rng := rand.New(rand.NewPCG(seed, featureStream))
	cols := rng.Perm(d)[:k]
	sort.Ints(cols)
	return cols, nil
}

// bootstrapSize converts a fraction of n rows into a sample size of at least 1.
func bootstrapSize(n int, fraction float64) int {
	size := int(float64(n)*fraction + 0.5)
	if size < 1 {
		return 1
	}
	return size
}
