package genie

import (
	"math/rand"
	"sync"
	"time"
)

var (
	gameRngOnce sync.Once
	gameRng     *rand.Rand
	gameRngMu   sync.Mutex
)

// getGameRng returns the process-wide random source, lazily seeded.
func getGameRng() *rand.Rand {
	gameRngOnce.Do(func() {
		gameRng = rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	return gameRng
}

// randomInt draws uniformly from [min, max] inclusive using rng, which may
// be nil to use the process-wide source. The shared source is guarded by a
// mutex; per-engine sources are expected to be used from one turn at a time.
func randomInt(rng *rand.Rand, min, max int) int {
	if max < min {
		return min
	}
	if rng == nil {
		gameRngMu.Lock()
		defer gameRngMu.Unlock()
		rng = getGameRng()
	}
	return min + rng.Intn(max-min+1)
}
