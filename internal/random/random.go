// Package random provides the randomness used by pack generation.
//
// All shuffles, dice rolls and random set picks go through a Source so tests
// can inject a seeded generator. Production code uses Default, which draws
// from the process-wide math/rand/v2 generator and has no seeding contract.
package random

import "math/rand/v2"

// Source is the subset of *rand.Rand used by the generators.
type Source interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalSource struct{}

func (globalSource) IntN(n int) int                     { return rand.IntN(n) }
func (globalSource) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Default returns the process-wide source.
func Default() Source { return globalSource{} }

// NewSeeded returns a reproducible source, intended for tests and simulations.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Roll returns a die result in [1, sides].
func Roll(src Source, sides int) int {
	return src.IntN(sides) + 1
}

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffled returns a shuffled copy of items; the input is left untouched.
func Shuffled[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
