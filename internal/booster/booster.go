// Package booster generates single-set boosters.
package booster

import (
	"errors"
	"fmt"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/dealer"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// ErrEmptySet is returned for a set without any common, uncommon, rare or
// mythic card.
var ErrEmptySet = errors.New("set has no boosterable cards")

// Layout describes the slots of a booster.
type Layout struct {
	Commons   int
	Uncommons int
	Rares     int

	// LandSlot adds one basic land (or any land-rarity card) when the set has one.
	LandSlot bool

	// MythicOdds is the "one in N" chance for a rare slot to become mythic
	// when the set has mythics. Zero disables mythics.
	MythicOdds int
}

// DefaultLayout is a fifteen card booster: one rare or mythic, three
// uncommons, ten commons and a land.
func DefaultLayout() Layout {
	return Layout{
		Commons:    10,
		Uncommons:  3,
		Rares:      1,
		LandSlot:   true,
		MythicOdds: 8,
	}
}

// Generator builds boosters from a catalog snapshot.
type Generator struct {
	catalog *catalog.Catalog
	src     random.Source
	layout  Layout
}

// Option configures a Generator.
type Option func(*Generator)

// WithLayout overrides the booster layout.
func WithLayout(l Layout) Option {
	return func(g *Generator) { g.layout = l }
}

// New creates a generator.
func New(cat *catalog.Catalog, src random.Source, opts ...Option) *Generator {
	g := &Generator{
		catalog: cat,
		src:     src,
		layout:  DefaultLayout(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one booster for the set. Cards of a rarity do not repeat
// within a booster unless the set has fewer of them than the slot count.
func (g *Generator) Generate(setCode string) ([]*catalog.Card, error) {
	set, err := g.catalog.SetByCode(setCode)
	if err != nil {
		return nil, err
	}
	if !set.Has(catalog.Common) && !set.Has(catalog.Uncommon) && !set.Has(catalog.Rare) && !set.Has(catalog.Mythic) {
		return nil, fmt.Errorf("%w: %s", ErrEmptySet, set.Code)
	}

	pack := make([]*catalog.Card, 0, g.layout.Commons+g.layout.Uncommons+g.layout.Rares+1)

	for i := 0; i < g.layout.Rares; i++ {
		if card := g.rareSlot(set); card != nil {
			pack = append(pack, card)
		}
	}
	for _, slot := range []struct {
		rarity catalog.Rarity
		n      int
	}{
		{catalog.Uncommon, g.layout.Uncommons},
		{catalog.Common, g.layout.Commons},
	} {
		if pack, err = g.fill(pack, set.Bucket(slot.rarity), slot.n); err != nil {
			return nil, fmt.Errorf("%w: no %s cards in %s", err, slot.rarity, set.Code)
		}
	}

	// The land slot is optional; sets without lands yield a shorter booster.
	if g.layout.LandSlot {
		lands := set.Bucket(catalog.Basic)
		if len(lands) == 0 {
			lands = set.Bucket(catalog.Land)
		}
		if len(lands) > 0 {
			if pack, err = g.fill(pack, lands, 1); err != nil {
				return nil, err
			}
		}
	}

	return pack, nil
}

func (g *Generator) rareSlot(set *catalog.Set) *catalog.Card {
	if set.Has(catalog.Mythic) && g.layout.MythicOdds > 0 && g.src.IntN(g.layout.MythicOdds) == 0 {
		return random.Pick(g.src, set.Bucket(catalog.Mythic))
	}
	switch {
	case set.Has(catalog.Rare):
		return random.Pick(g.src, set.Bucket(catalog.Rare))
	case set.Has(catalog.Mythic):
		return random.Pick(g.src, set.Bucket(catalog.Mythic))
	case set.Has(catalog.Uncommon):
		return random.Pick(g.src, set.Bucket(catalog.Uncommon))
	}
	return nil
}

// fill appends n cards dealt from a pack-local stack over bucket.
func (g *Generator) fill(pack, bucket []*catalog.Card, n int) ([]*catalog.Card, error) {
	if n == 0 {
		return pack, nil
	}
	stack, err := dealer.New(bucket, g.src)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		pack = append(pack, stack.Deal())
	}
	return pack, nil
}
