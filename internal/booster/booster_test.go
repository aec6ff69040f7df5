package booster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/catalog/catalogtest"
	"github.com/ramonehamilton/draftpool/internal/dealer"
	"github.com/ramonehamilton/draftpool/internal/random"
)

func countRarity(pack []*catalog.Card, r catalog.Rarity) int {
	n := 0
	for _, c := range pack {
		if c.Rarity == r {
			n++
		}
	}
	return n
}

func TestGenerate_DefaultLayout(t *testing.T) {
	spec := catalogtest.Plain("ABC", 20, 10, 5, 2)
	spec.Spells[catalog.Basic] = 5
	cat := catalogtest.New(t, spec)
	g := New(cat, random.NewSeeded(1))

	for i := 0; i < 50; i++ {
		pack, err := g.Generate("ABC")
		require.NoError(t, err)
		require.Len(t, pack, 15)

		assert.Equal(t, 10, countRarity(pack, catalog.Common))
		assert.Equal(t, 3, countRarity(pack, catalog.Uncommon))
		assert.Equal(t, 1, countRarity(pack, catalog.Rare)+countRarity(pack, catalog.Mythic))
		assert.Equal(t, 1, countRarity(pack, catalog.Basic))
	}
}

func TestGenerate_NoRepeatsWithinRarity(t *testing.T) {
	cat := catalogtest.New(t, catalogtest.Plain("ABC", 20, 10, 5, 0))
	g := New(cat, random.NewSeeded(2))

	pack, err := g.Generate("abc")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, c := range pack {
		if seen[c.ID] {
			t.Fatalf("card %s dealt twice in one booster", c.Name)
		}
		seen[c.ID] = true
	}
}

func TestGenerate_RareFallsBackToUncommon(t *testing.T) {
	cat := catalogtest.New(t, catalogtest.Plain("UNC", 20, 10, 0, 0))
	g := New(cat, random.NewSeeded(3))

	pack, err := g.Generate("UNC")
	require.NoError(t, err)
	assert.Len(t, pack, 14, "no land slot without lands")
	assert.Equal(t, 4, countRarity(pack, catalog.Uncommon))
}

func TestGenerate_UnknownSet(t *testing.T) {
	cat := catalogtest.New(t, catalogtest.Plain("ABC", 1, 1, 1, 0))
	_, err := New(cat, random.Default()).Generate("ZZZ")
	assert.ErrorIs(t, err, catalog.ErrUnknownSet)
}

func TestGenerate_EmptySet(t *testing.T) {
	spec := catalogtest.SetSpec{Code: "LND", Spells: map[catalog.Rarity]int{catalog.Basic: 5}}
	cat := catalogtest.New(t, spec)
	_, err := New(cat, random.Default()).Generate("LND")
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestGenerate_CustomLayout(t *testing.T) {
	cat := catalogtest.New(t, catalogtest.Plain("ABC", 20, 10, 5, 0))
	g := New(cat, random.NewSeeded(4), WithLayout(Layout{Commons: 2, Uncommons: 1}))

	pack, err := g.Generate("ABC")
	require.NoError(t, err)
	assert.Len(t, pack, 3)
}

func TestGenerate_MissingSlotBucket(t *testing.T) {
	cat := catalogtest.New(t,
		catalogtest.Plain("RAR", 0, 0, 3, 0),
		catalogtest.Plain("NOC", 0, 5, 3, 0),
	)
	g := New(cat, random.NewSeeded(5))

	for _, code := range []string{"RAR", "NOC"} {
		pack, err := g.Generate(code)
		assert.ErrorIs(t, err, dealer.ErrEmptyCategory, code)
		assert.Nil(t, pack, code)
	}
}
