// Package pool generates the packs and sealed pools handed to players at the
// start of a draft or sealed event.
//
// Each game mode has an assembler producing raw card sequences; the
// finalizer then stamps every card with a fresh instance id and groups the
// packs per player. Generation is synchronous and all-or-nothing: on error
// no partial pool is returned.
package pool

import (
	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// Catalog is the read-only card source the engine draws from.
type Catalog interface {
	CardByID(id string) (*catalog.Card, error)
	CardByName(name string) (*catalog.Card, error)
	CardInSet(setCode, name string) (*catalog.Card, error)
	SetByCode(code string) (*catalog.Set, error)
	RandomSet(src random.Source) (*catalog.Set, error)
	ModernOrCoreSets() []*catalog.Set
	ExpansionOrCoreSets() []*catalog.Set
}

// BoosterGenerator returns one booster for a set code.
type BoosterGenerator interface {
	Generate(setCode string) ([]*catalog.Card, error)
}

// DraftedCard is one physical card in a generated pool. Two instances may
// share a catalog card but never an InstanceID.
type DraftedCard struct {
	*catalog.Card
	InstanceID string `json:"cardId"`
}

// Pack is an ordered sequence of cards in deal order.
type Pack []DraftedCard

// Pool holds, per player index, that player's packs. Sealed modes give each
// player exactly one flattened pack.
type Pool [][]Pack

// Players returns the number of players.
func (p Pool) Players() int {
	return len(p)
}

// CardCount returns the total number of cards in the pool.
func (p Pool) CardCount() int {
	n := 0
	for _, packs := range p {
		for _, pack := range packs {
			n += len(pack)
		}
	}
	return n
}
