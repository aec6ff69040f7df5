// Package dealer implements the category stack used to deal cards from a
// fixed bucket without repeats.
//
// A Stack holds an active (shuffled) sequence and a spent sequence. Each
// Deal pops from active into spent; when active runs dry, spent is shuffled
// back into active. Within one pass over the bucket every card is dealt
// exactly once, and each pass gets a fresh order.
package dealer

import (
	"errors"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/random"
)

// ErrEmptyCategory is returned when a stack is built from an empty bucket.
var ErrEmptyCategory = errors.New("empty card category")

// Stack deals cards from one category. It is not safe for concurrent use;
// build one per generation call.
type Stack struct {
	active []*catalog.Card
	spent  []*catalog.Card
	src    random.Source
}

// New creates a stack over cards, shuffled once up front.
func New(cards []*catalog.Card, src random.Source) (*Stack, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyCategory
	}
	return &Stack{
		active: random.Shuffled(src, cards),
		spent:  make([]*catalog.Card, 0, len(cards)),
		src:    src,
	}, nil
}

// Deal returns the next card, reshuffling the spent cards when the active
// sequence is exhausted.
func (s *Stack) Deal() *catalog.Card {
	if len(s.active) == 0 {
		s.active = random.Shuffled(s.src, s.spent)
		s.spent = s.spent[:0]
	}
	last := len(s.active) - 1
	card := s.active[last]
	s.active = s.active[:last]
	s.spent = append(s.spent, card)
	return card
}

// Len returns the bucket size.
func (s *Stack) Len() int {
	return len(s.active) + len(s.spent)
}

// Remaining returns how many cards are left before the next reshuffle.
func (s *Stack) Remaining() int {
	return len(s.active)
}
