package pool

import (
	"fmt"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/dealer"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// SlotConfig configures the slot-weighted modes. Only the first set code is
// used.
type SlotConfig struct {
	Sets        []string
	Players     int
	PacksNumber int // default 3 for draft, 6 for sealed
}

type slotCategory int

const (
	manaFix slotCategory = iota
	commonCreature
	uncommonCreature
	rareCreature
	mythicCreature
	commonSpell
	uncommonSpell
	rareSpell
	commonItem
	uncommonItem
	rareItem
	trainer
	numSlotCategories
)

var slotCategoryNames = [numSlotCategories]string{
	"mana fix",
	"common creature",
	"uncommon creature",
	"rare creature",
	"mythic creature",
	"common spell",
	"uncommon spell",
	"rare spell",
	"common item",
	"uncommon item",
	"rare item",
	"trainer",
}

func (c slotCategory) String() string {
	return slotCategoryNames[c]
}

// slotCategoryOf returns the category of a card, if any. Mythic spells and
// items, lands and basics have no slot.
func slotCategoryOf(card *catalog.Card) (slotCategory, bool) {
	switch card.Rarity {
	case catalog.ManaFix:
		return manaFix, true
	case catalog.Common, catalog.Uncommon, catalog.Rare, catalog.Mythic:
	default:
		return 0, false
	}

	byRarity := func(c, u, r slotCategory) (slotCategory, bool) {
		switch card.Rarity {
		case catalog.Common:
			return c, true
		case catalog.Uncommon:
			return u, true
		case catalog.Rare:
			return r, true
		}
		return 0, false
	}

	switch card.Kind {
	case catalog.KindCreature:
		if card.Rarity == catalog.Mythic {
			return mythicCreature, true
		}
		return byRarity(commonCreature, uncommonCreature, rareCreature)
	case catalog.KindItem:
		return byRarity(commonItem, uncommonItem, rareItem)
	case catalog.KindTrainer:
		return trainer, true
	default:
		return byRarity(commonSpell, uncommonSpell, rareSpell)
	}
}

// slot is one line of the booster recipe: count cards, each from the
// category chosen by pick.
type slot struct {
	count int
	pick  func(src random.Source) slotCategory
}

func always(c slotCategory) func(random.Source) slotCategory {
	return func(random.Source) slotCategory { return c }
}

// Fifteen cards per booster.
var slotRecipe = []slot{
	{1, always(manaFix)},
	{4, always(commonCreature)},
	{3, always(uncommonCreature)},
	{1, always(rareCreature)},
	{1, func(src random.Source) slotCategory {
		if random.Roll(src, 6) == 6 {
			return mythicCreature
		}
		return rareCreature
	}},
	{2, always(commonSpell)},
	{1, always(uncommonSpell)},
	{1, func(src random.Source) slotCategory {
		switch random.Roll(src, 6) {
		case 1, 2, 3:
			return uncommonSpell
		case 4, 5:
			return rareSpell
		default:
			return trainer
		}
	}},
	{1, func(src random.Source) slotCategory {
		switch random.Roll(src, 6) {
		case 1, 2, 3:
			return commonItem
		case 4, 5:
			return uncommonItem
		default:
			return rareItem
		}
	}},
}

// SlotDraft builds Players × PacksNumber slot-weighted boosters.
func (e *Engine) SlotDraft(cfg SlotConfig) (Pool, error) {
	cfg.PacksNumber = orDefault(cfg.PacksNumber, e.defaults.SlotDraftPacks)

	raw, err := e.assembleSlot(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(raw, cfg.Players)
	e.logGenerated("slot draft", pool)
	return pool, nil
}

// SlotSealed builds PacksNumber slot-weighted boosters per player and
// flattens them into one pool each.
func (e *Engine) SlotSealed(cfg SlotConfig) (Pool, error) {
	cfg.PacksNumber = orDefault(cfg.PacksNumber, e.defaults.SlotSealedPacks)

	raw, err := e.assembleSlot(cfg)
	if err != nil {
		return nil, err
	}
	pool := e.finalize(flattenPerPlayer(raw, cfg.PacksNumber), cfg.Players)
	e.logGenerated("slot sealed", pool)
	return pool, nil
}

// assembleSlot deals the recipe breadth-first: each slot is filled for every
// pack before moving to the next slot. All packs share one stack per
// category, which reshuffles when exhausted.
func (e *Engine) assembleSlot(cfg SlotConfig) ([][]*catalog.Card, error) {
	if err := e.checkShape(cfg.Players, cfg.PacksNumber, boosterSize); err != nil {
		return nil, err
	}
	if len(cfg.Sets) == 0 {
		return nil, fmt.Errorf("%w: a set is required", ErrInvalidRequest)
	}

	set, err := e.catalog.SetByCode(cfg.Sets[0])
	if err != nil {
		return nil, err
	}
	stacks, err := e.slotStacks(set)
	if err != nil {
		return nil, err
	}

	packs := make([][]*catalog.Card, cfg.Players*cfg.PacksNumber)
	for _, s := range slotRecipe {
		for n := 0; n < s.count; n++ {
			for i := range packs {
				packs[i] = append(packs[i], stacks[s.pick(e.src)].Deal())
			}
		}
	}
	return packs, nil
}

func (e *Engine) slotStacks(set *catalog.Set) ([numSlotCategories]*dealer.Stack, error) {
	var buckets [numSlotCategories][]*catalog.Card
	for _, card := range set.Cards {
		if c, ok := slotCategoryOf(card); ok {
			buckets[c] = append(buckets[c], card)
		}
	}

	var stacks [numSlotCategories]*dealer.Stack
	for c := slotCategory(0); c < numSlotCategories; c++ {
		stack, err := dealer.New(buckets[c], e.src)
		if err != nil {
			return stacks, fmt.Errorf("%w: no %s cards in set %s", err, c, set.Code)
		}
		stacks[c] = stack
	}
	return stacks, nil
}
