package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Rarity is the tier that controls which slots a card may fill.
type Rarity string

const (
	Common   Rarity = "Common"
	Uncommon Rarity = "Uncommon"
	Rare     Rarity = "Rare"
	Mythic   Rarity = "Mythic"
	ManaFix  Rarity = "ManaFix"
	Land     Rarity = "Land"
	Basic    Rarity = "Basic"
)

// Rarities lists every rarity in display order.
var Rarities = []Rarity{Common, Uncommon, Rare, Mythic, ManaFix, Land, Basic}

// ParseRarity converts a rarity tag from an import file, case-insensitively.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return Common, nil
	case "uncommon":
		return Uncommon, nil
	case "rare":
		return Rare, nil
	case "mythic", "mythic rare":
		return Mythic, nil
	case "manafix":
		return ManaFix, nil
	case "land":
		return Land, nil
	case "basic", "basic land":
		return Basic, nil
	}
	return "", fmt.Errorf("unknown rarity %q", s)
}

// Kind is the slot kind of a card, derived once from its type line.
type Kind string

const (
	KindCreature Kind = "creature"
	KindSpell    Kind = "spell" // neither creature nor artifact
	KindItem     Kind = "item"  // non-creature artifact
	KindTrainer  Kind = "trainer"
)

// ClassifyKind maps a type line to its slot kind. Creature wins over
// Artifact, and Artifact over Legendary Trainer.
func ClassifyKind(typeLine string) Kind {
	switch {
	case strings.Contains(typeLine, "Creature"):
		return KindCreature
	case strings.Contains(typeLine, "Artifact"):
		return KindItem
	case strings.Contains(typeLine, "Legendary Trainer"):
		return KindTrainer
	default:
		return KindSpell
	}
}

// Card is a catalog entry. Cards are shared between packs and must not be
// modified once the catalog is built.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Names    []string `json:"names"`
	SetCode  string   `json:"setCode"`
	Number   int      `json:"number"`
	ManaCost string   `json:"manaCost"`
	CMC      float64  `json:"convertedManaCost"`
	Type     string   `json:"type"`
	Types    []string `json:"types"`
	Rarity   Rarity   `json:"rarity"`
	Kind     Kind     `json:"kind"`

	Power     *int   `json:"power,omitempty"`
	Toughness *int   `json:"toughness,omitempty"`
	Loyalty   string `json:"loyalty,omitempty"`

	Colors   []string `json:"colors"`
	Layout   string   `json:"layout"`
	Side     string   `json:"side"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"url,omitempty"`
}

// HasType reports whether tag is one of the card's type tags.
func (c *Card) HasType(tag string) bool {
	for _, t := range c.Types {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// IsColorless reports whether the card has no color.
func (c *Card) IsColorless() bool {
	return len(c.Colors) == 0
}

var cardNamespace = uuid.MustParse("6f1d6c2e-3b0a-4d6e-9f5c-0b9a3c7e2d41")

// CardID derives the stable identity of a printing. Re-importing the same
// database yields the same ids.
func CardID(setCode, name string, number int) string {
	key := fmt.Sprintf("%s|%s|%d", strings.ToUpper(setCode), name, number)
	return uuid.NewSHA1(cardNamespace, []byte(key)).String()
}
