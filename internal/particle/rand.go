package particle

import (
	"math/rand"
	"time"
)

// Rand is the random source consumed by the engine. *rand.Rand satisfies it,
// so tests pass rand.New(rand.NewSource(seed)) and get reproducible effects.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomInRange returns a uniform value in [min, max].
func RandomInRange(rng Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// Spread samples base ± width/2, the SpriteKit "value + range" convention.
func Spread(rng Rand, base, width float64) float64 {
	if width <= 0 {
		return base
	}
	return base + (rng.Float64()-0.5)*width
}
