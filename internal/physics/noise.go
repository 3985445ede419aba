package physics

import "math/rand"

// Noise supplies bounded random perturbations for the model. The real
// source wraps math/rand; tests inject a scripted one for exact numeric
// assertions.
type Noise interface {
	// Uniform returns a value drawn uniformly from [min, max).
	Uniform(min, max float64) float64
}

// RandNoise draws from a math/rand source.
type RandNoise struct {
	rng *rand.Rand
}

// NewRandNoise creates a noise source with the given seed.
func NewRandNoise(seed int64) *RandNoise {
	return &RandNoise{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a value drawn uniformly from [min, max).
func (n *RandNoise) Uniform(min, max float64) float64 {
	return min + n.rng.Float64()*(max-min)
}

// FixedNoise always returns Value, ignoring the bounds. Test double.
type FixedNoise struct {
	Value float64
}

// Uniform returns the fixed value.
func (n FixedNoise) Uniform(min, max float64) float64 {
	return n.Value
}
