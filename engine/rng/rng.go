// Package rng provides the seeded random source every probabilistic rule
// draws from. It tracks how many values have been consumed so a save can
// restore the exact stream position, keeping replays deterministic.
package rng

import "math/rand"

// RNG wraps a seeded source with position tracking.
type RNG struct {
	seed int64
	pos  int
	r    *rand.Rand
}

// New creates an RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// Restore recreates an RNG at a previously saved stream position by
// replaying the stream from the seed.
func Restore(seed int64, pos int) *RNG {
	g := New(seed)
	for i := 0; i < pos; i++ {
		g.r.Int63()
	}
	g.pos = pos
	return g
}

// Seed returns the seed this RNG was created with.
func (g *RNG) Seed() int64 { return g.seed }

// Position returns how many values have been consumed.
func (g *RNG) Position() int { return g.pos }

func (g *RNG) next() int64 {
	g.pos++
	return g.r.Int63()
}

// Roll returns a value in [0, n). n must be positive.
func (g *RNG) Roll(n int) int {
	return int(g.next() % int64(n))
}

// IntBetween returns a value in [lo, hi] inclusive.
func (g *RNG) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.Roll(hi-lo+1)
}

// Chance returns true with probability p. p is clamped to [0, 1], so a
// stat-inflated probability can never exceed certainty.
func (g *RNG) Chance(p float64) bool {
	if p <= 0 {
		g.next() // consume for stream stability
		return false
	}
	if p >= 1 {
		g.next()
		return true
	}
	return g.Float() < p
}

// Float returns a value in [0, 1).
func (g *RNG) Float() float64 {
	return float64(g.next()%1_000_000) / 1_000_000
}

// Uniform returns a value in [lo, hi).
func (g *RNG) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.Float()*(hi-lo)
}
