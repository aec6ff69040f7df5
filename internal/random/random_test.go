package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoll(t *testing.T) {
	src := NewSeeded(7)
	seen := make(map[int]bool)
	for i := 0; i < 600; i++ {
		v := Roll(src, 6)
		if v < 1 || v > 6 {
			t.Fatalf("Roll() = %d, want value in [1,6]", v)
		}
		seen[v] = true
	}
	assert.Len(t, seen, 6, "every face should come up in 600 rolls")
}

func TestShuffled(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := Shuffled(NewSeeded(1), in)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in, "input must not be modified")
	assert.ElementsMatch(t, in, out)
}

func TestNewSeeded_Reproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestPick(t *testing.T) {
	items := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, items, Pick(Default(), items))
	}
}
