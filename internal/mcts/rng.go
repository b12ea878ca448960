package mcts

import (
	"math/rand"
	"time"
)

// processRand is the single, process-wide source of randomness used by the
// sampler. It is seeded from wall-clock time when the package is initialized.
// The search driver is single-threaded, so this is never accessed
// concurrently; it is not safe to share across goroutines.
var processRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// SeedRandom reseeds the process-wide sampler source. Tests use this to get
// reproducible tree shapes; production callers never need it.
func SeedRandom(seed int64) {
	processRand = rand.New(rand.NewSource(seed))
}

// sampleWeighted draws u uniformly from [0, sum) and returns the smallest
// index i such that the running total of weight(0)..weight(i) exceeds u.
// Floating point drift can leave the running total just short of sum for
// the last index, so the loop always falls back to returning n-1.
func sampleWeighted(rng *rand.Rand, sum float64, n int, weight func(i int) float64) int {
	if n <= 0 {
		return -1
	}
	u := rng.Float64() * sum
	running := 0.0
	for i := 0; i < n; i++ {
		running += weight(i)
		if running > u {
			return i
		}
	}
	return n - 1
}
