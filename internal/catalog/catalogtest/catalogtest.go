// Package catalogtest builds small synthetic catalogs for tests in other
// packages.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/ramonehamilton/draftpool/internal/catalog"
)

// SetSpec describes a synthetic set. Each map gives, per rarity, how many
// cards of that kind to create.
type SetSpec struct {
	Code        string
	Type        string // default "expansion"
	ReleaseDate string // default "2020-01-01"

	Creatures map[catalog.Rarity]int
	Spells    map[catalog.Rarity]int
	Items     map[catalog.Rarity]int
	Trainers  map[catalog.Rarity]int
}

// Plain returns a spec with only instants (spell kind) at the given counts.
func Plain(code string, commons, uncommons, rares, mythics int) SetSpec {
	return SetSpec{
		Code: code,
		Spells: map[catalog.Rarity]int{
			catalog.Common:   commons,
			catalog.Uncommon: uncommons,
			catalog.Rare:     rares,
			catalog.Mythic:   mythics,
		},
	}
}

// BuildSet materializes a spec. Card names are "<CODE> <Kind> <Rarity> <n>".
func BuildSet(spec SetSpec) *catalog.Set {
	set := &catalog.Set{
		Code:        spec.Code,
		Name:        spec.Code + " Test Set",
		Type:        spec.Type,
		ReleaseDate: catalog.ParseReleaseDate(spec.ReleaseDate),
	}
	if set.Type == "" {
		set.Type = "expansion"
	}
	if spec.ReleaseDate == "" {
		set.ReleaseDate = catalog.ParseReleaseDate("2020-01-01")
	}

	number := 0
	add := func(counts map[catalog.Rarity]int, label, typeLine string) {
		for _, r := range catalog.Rarities {
			for i := 0; i < counts[r]; i++ {
				number++
				name := fmt.Sprintf("%s %s %s %d", spec.Code, label, r, i+1)
				set.Cards = append(set.Cards, &catalog.Card{
					Name:     name,
					Names:    []string{name},
					Number:   number,
					Type:     typeLine,
					Types:    []string{typeLine},
					Rarity:   r,
					Layout:   "normal",
					Side:     "a",
					ManaCost: "{1}",
					CMC:      1,
				})
			}
		}
	}
	add(spec.Creatures, "Creature", "Creature")
	add(spec.Spells, "Instant", "Instant")
	add(spec.Items, "Artifact", "Artifact")
	add(spec.Trainers, "Trainer", "Legendary Trainer")
	return set
}

// New builds a catalog from specs and fails the test on error.
func New(t testing.TB, specs ...SetSpec) *catalog.Catalog {
	t.Helper()

	sets := make([]*catalog.Set, 0, len(specs))
	for _, spec := range specs {
		sets = append(sets, BuildSet(spec))
	}
	c, err := catalog.New(sets)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

// SlotSet returns a spec with every category the slot-weighted assembler
// needs, each holding n cards.
func SlotSet(code string, n int) SetSpec {
	full := map[catalog.Rarity]int{
		catalog.Common:   n,
		catalog.Uncommon: n,
		catalog.Rare:     n,
	}
	creatures := map[catalog.Rarity]int{
		catalog.Common:   n,
		catalog.Uncommon: n,
		catalog.Rare:     n,
		catalog.Mythic:   n,
		catalog.ManaFix:  n,
	}
	return SetSpec{
		Code:      code,
		Creatures: creatures,
		Spells:    full,
		Items:     full,
		Trainers:  map[catalog.Rarity]int{catalog.Rare: n},
	}
}
