package pool

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/random"
)

const (
	totalChaosUncommons = 3
	totalChaosCommons   = 11

	// mythicUpgradeOdds is the "one in N" chance for a total chaos top slot
	// to be mythic instead of rare.
	mythicUpgradeOdds = 7
)

// ChaosConfig configures the chaos modes.
type ChaosConfig struct {
	Players     int
	PacksNumber int // default 3 for draft, 6 for sealed
	ModernOnly  bool
	TotalChaos  bool
}

// DraftChaos builds Players × PacksNumber packs, each from randomly chosen
// sets. With TotalChaos every card of a pack may come from a different set.
func (e *Engine) DraftChaos(cfg ChaosConfig) (Pool, error) {
	cfg.PacksNumber = orDefault(cfg.PacksNumber, e.defaults.ChaosDraftPacks)

	raw, err := e.assembleChaos(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("chaos draft", pool)
	return pool, nil
}

// SealedChaos slices the chaos pack stream into PacksNumber consecutive
// packs per player and flattens each slice into one pool.
func (e *Engine) SealedChaos(cfg ChaosConfig) (Pool, error) {
	cfg.PacksNumber = orDefault(cfg.PacksNumber, e.defaults.ChaosSealedPacks)

	raw, err := e.assembleChaos(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(flattenPerPlayer(raw, cfg.PacksNumber), cfg.Players)
	e.logGenerated("chaos sealed", pool)
	return pool, nil
}

func (e *Engine) assembleChaos(cfg ChaosConfig) ([][]*catalog.Card, error) {
	if err := e.checkShape(cfg.Players, cfg.PacksNumber, boosterSize); err != nil {
		return nil, err
	}

	candidates := e.catalog.ExpansionOrCoreSets()
	if cfg.ModernOnly {
		candidates = e.catalog.ModernOrCoreSets()
	}
	chooser := newSetChooser(candidates, e.src)

	raw := make([][]*catalog.Card, 0, cfg.Players*cfg.PacksNumber)
	for i := 0; i < cfg.Players*cfg.PacksNumber; i++ {
		var (
			pack []*catalog.Card
			err  error
		)
		if cfg.TotalChaos {
			pack, err = e.totalChaosPack(chooser)
		} else {
			pack, err = e.randomSetPack(chooser)
		}
		if err != nil {
			return nil, err
		}
		raw = append(raw, pack)
	}
	return raw, nil
}

func (e *Engine) randomSetPack(chooser *setChooser) ([]*catalog.Card, error) {
	set, err := chooser.choose()
	if err != nil {
		return nil, err
	}
	pack, err := e.boosters.Generate(set.Code)
	if err != nil {
		return nil, fmt.Errorf("generate booster for %s: %w", set.Code, err)
	}
	return pack, nil
}

// totalChaosPack builds a fifteen card pack: a top slot, three uncommons and
// eleven commons, each from an independently chosen set.
func (e *Engine) totalChaosPack(chooser *setChooser) ([]*catalog.Card, error) {
	pack := make([]*catalog.Card, 0, 1+totalChaosUncommons+totalChaosCommons)

	set, err := chooser.choose()
	if err != nil {
		return nil, err
	}
	switch {
	case set.Has(catalog.Rare) && set.Has(catalog.Mythic) && e.src.IntN(mythicUpgradeOdds) == 0:
		pack = append(pack, random.Pick(e.src, set.Bucket(catalog.Mythic)))
	case set.Has(catalog.Rare):
		pack = append(pack, random.Pick(e.src, set.Bucket(catalog.Rare)))
	default:
		pack = append(pack, random.Pick(e.src, set.Bucket(catalog.Uncommon)))
	}

	for i := 0; i < totalChaosUncommons; i++ {
		set, err := chooser.choose()
		if err != nil {
			return nil, err
		}
		pack = append(pack, random.Pick(e.src, set.Bucket(catalog.Uncommon)))
	}
	for i := 0; i < totalChaosCommons; i++ {
		set, err := chooser.choose()
		if err != nil {
			return nil, err
		}
		pack = append(pack, random.Pick(e.src, set.Bucket(catalog.Common)))
	}
	return pack, nil
}

// setChooser picks random sets that have both commons and uncommons. An
// ineligible set is dropped for the rest of the generation call, so the
// search always terminates.
type setChooser struct {
	candidates []*catalog.Set
	src        random.Source
}

func newSetChooser(candidates []*catalog.Set, src random.Source) *setChooser {
	return &setChooser{
		candidates: slices.Clone(candidates),
		src:        src,
	}
}

func (c *setChooser) choose() (*catalog.Set, error) {
	for len(c.candidates) > 0 {
		i := c.src.IntN(len(c.candidates))
		if set := c.candidates[i]; isChaosEligible(set) {
			return set, nil
		}
		c.candidates = slices.Delete(c.candidates, i, i+1)
	}
	return nil, ErrNoEligibleSet
}

func isChaosEligible(set *catalog.Set) bool {
	return set.Has(catalog.Common) && set.Has(catalog.Uncommon)
}

// flattenPerPlayer merges every run of n consecutive packs into one.
func flattenPerPlayer(packs [][]*catalog.Card, n int) [][]*catalog.Card {
	return lo.Map(lo.Chunk(packs, n), func(chunk [][]*catalog.Card, _ int) []*catalog.Card {
		return lo.Flatten(chunk)
	})
}
