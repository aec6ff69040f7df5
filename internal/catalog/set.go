package catalog

import (
	"strings"
	"time"
)

// ReleaseDateLayout is the date format used by set release dates.
const ReleaseDateLayout = "2006-01-02"

// Set is a catalog set with its cards partitioned by rarity.
type Set struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	ReleaseDate time.Time `json:"releaseDate"`
	Cards       []*Card   `json:"-"`

	buckets map[Rarity][]*Card
}

// Bucket returns the cards of the given rarity. The slice is shared and
// must not be modified.
func (s *Set) Bucket(r Rarity) []*Card {
	return s.buckets[r]
}

// Has reports whether the set has at least one card of the rarity.
func (s *Set) Has(r Rarity) bool {
	return len(s.buckets[r]) > 0
}

// RarityCounts returns the number of cards per rarity, omitting empty ones.
func (s *Set) RarityCounts() map[Rarity]int {
	counts := make(map[Rarity]int, len(s.buckets))
	for r, cards := range s.buckets {
		if len(cards) > 0 {
			counts[r] = len(cards)
		}
	}
	return counts
}

// IsExpansionOrCore reports whether the set type is "expansion" or "core".
func (s *Set) IsExpansionOrCore() bool {
	return strings.EqualFold(s.Type, "expansion") || strings.EqualFold(s.Type, "core")
}

func (s *Set) index() {
	s.buckets = make(map[Rarity][]*Card)
	for _, c := range s.Cards {
		s.buckets[c.Rarity] = append(s.buckets[c.Rarity], c)
	}
}

// ParseReleaseDate parses a release date, returning the zero time for an
// empty or malformed value.
func ParseReleaseDate(s string) time.Time {
	t, err := time.Parse(ReleaseDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
