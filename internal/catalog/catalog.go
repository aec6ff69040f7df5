// Package catalog provides the read-only card and set index that pack
// generation draws from.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ramonehamilton/draftpool/internal/random"
)

// DefaultModernCutoff is the first release date considered "modern"
// (Eighth Edition, the first set printed in the modern card frame).
var DefaultModernCutoff = time.Date(2003, time.July, 28, 0, 0, 0, 0, time.UTC)

// Catalog indexes sets and cards. It is immutable after New and safe for
// concurrent reads.
type Catalog struct {
	sets            []*Set
	setsByCode      map[string]*Set
	cardsByID       map[string]*Card
	cardsByName     map[string]*Card
	expansionOrCore []*Set
	modern          []*Set
	cardCount       int
}

// Option configures a Catalog.
type Option func(*options)

type options struct {
	modernCutoff time.Time
}

// WithModernCutoff overrides the release date from which sets count as modern.
func WithModernCutoff(t time.Time) Option {
	return func(o *options) { o.modernCutoff = t }
}

// Stats summarizes a catalog.
type Stats struct {
	Sets            int `json:"sets"`
	Cards           int `json:"cards"`
	ExpansionOrCore int `json:"expansionOrCore"`
	Modern          int `json:"modern"`
}

// New builds a catalog from sets. Cards are stamped with their set code and
// slot kind, and bucketed by rarity. When several printings share a name the
// oldest one answers CardByName.
func New(sets []*Set, opts ...Option) (*Catalog, error) {
	o := options{modernCutoff: DefaultModernCutoff}
	for _, opt := range opts {
		opt(&o)
	}

	ordered := make([]*Set, len(sets))
	copy(ordered, sets)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ReleaseDate.Equal(ordered[j].ReleaseDate) {
			return ordered[i].ReleaseDate.Before(ordered[j].ReleaseDate)
		}
		return ordered[i].Code < ordered[j].Code
	})

	c := &Catalog{
		sets:        ordered,
		setsByCode:  make(map[string]*Set, len(sets)),
		cardsByID:   make(map[string]*Card),
		cardsByName: make(map[string]*Card),
	}

	// Validate everything before touching the caller's cards, so a failed
	// build leaves them as they were.
	ids := make([][]string, len(ordered))
	for i, set := range ordered {
		key := normalizeCode(set.Code)
		if key == "" {
			return nil, fmt.Errorf("set with empty code")
		}
		if _, dup := c.setsByCode[key]; dup {
			return nil, fmt.Errorf("duplicate set code %q", set.Code)
		}
		c.setsByCode[key] = set

		ids[i] = make([]string, len(set.Cards))
		for j, card := range set.Cards {
			id := card.ID
			if id == "" {
				id = CardID(set.Code, card.Name, card.Number)
			}
			if _, dup := c.cardsByID[id]; dup {
				return nil, fmt.Errorf("duplicate card id %s (%s in %s)", id, card.Name, set.Code)
			}
			c.cardsByID[id] = card
			ids[i][j] = id
		}
	}

	for i, set := range ordered {
		for j, card := range set.Cards {
			card.ID = ids[i][j]
			card.SetCode = set.Code
			card.Kind = ClassifyKind(card.Type)

			name := normalizeName(card.Name)
			if _, seen := c.cardsByName[name]; !seen {
				c.cardsByName[name] = card
			}
		}
		c.cardCount += len(set.Cards)
		set.index()

		if set.IsExpansionOrCore() {
			c.expansionOrCore = append(c.expansionOrCore, set)
			if !set.ReleaseDate.IsZero() && !set.ReleaseDate.Before(o.modernCutoff) {
				c.modern = append(c.modern, set)
			}
		}
	}

	return c, nil
}

// CardByID returns the card with the given identity.
func (c *Catalog) CardByID(id string) (*Card, error) {
	card, ok := c.cardsByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrUnknownCard, id)
	}
	return card, nil
}

// CardByName returns the card with the given name, ignoring case and
// surrounding whitespace.
func (c *Catalog) CardByName(name string) (*Card, error) {
	card, ok := c.cardsByName[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return card, nil
}

// CardInSet returns the printing of name in the set with the given code.
// Both lookups ignore case.
func (c *Catalog) CardInSet(code, name string) (*Card, error) {
	set, err := c.SetByCode(code)
	if err != nil {
		return nil, err
	}
	want := normalizeName(name)
	for _, card := range set.Cards {
		if normalizeName(card.Name) == want {
			return card, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrUnknownCard, name, set.Code)
}

// SetByCode returns the set with the given code, ignoring case.
func (c *Catalog) SetByCode(code string) (*Set, error) {
	set, ok := c.setsByCode[normalizeCode(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, code)
	}
	return set, nil
}

// RandomSet returns a uniformly chosen expansion or core set.
func (c *Catalog) RandomSet(src random.Source) (*Set, error) {
	if len(c.expansionOrCore) == 0 {
		return nil, ErrNoSets
	}
	return random.Pick(src, c.expansionOrCore), nil
}

// ModernOrCoreSets returns expansion and core sets released on or after the
// modern cutoff. The returned slice is a copy.
func (c *Catalog) ModernOrCoreSets() []*Set {
	return append([]*Set(nil), c.modern...)
}

// ExpansionOrCoreSets returns every expansion and core set. The returned
// slice is a copy.
func (c *Catalog) ExpansionOrCoreSets() []*Set {
	return append([]*Set(nil), c.expansionOrCore...)
}

// Sets returns every set ordered by release date.
func (c *Catalog) Sets() []*Set {
	return append([]*Set(nil), c.sets...)
}

// Stats returns catalog counts.
func (c *Catalog) Stats() Stats {
	return Stats{
		Sets:            len(c.sets),
		Cards:           c.cardCount,
		ExpansionOrCore: len(c.expansionOrCore),
		Modern:          len(c.modern),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
