package chain

import "math/rand/v2"

// Rand is the entropy source consumed by Build. *rand.Rand from math/rand/v2
// satisfies it; tests substitute scripted sources.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

// NewRand returns a PCG generator for seed. The same seed always yields the
// same sequence of fee draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// RandomSeed draws a fresh seed from the runtime's global source.
func RandomSeed() uint64 {
	return rand.Uint64()
}
