package dealer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draftpool/internal/catalog"
	"github.com/ramonehamilton/draftpool/internal/random"
)

func bucket(n int) []*catalog.Card {
	cards := make([]*catalog.Card, n)
	for i := range cards {
		cards[i] = &catalog.Card{ID: fmt.Sprintf("card-%d", i), Name: fmt.Sprintf("Card %d", i)}
	}
	return cards
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil, random.Default())
	assert.ErrorIs(t, err, ErrEmptyCategory)
}

func TestDeal_OnePassIsPermutation(t *testing.T) {
	cards := bucket(7)
	s, err := New(cards, random.NewSeeded(1))
	require.NoError(t, err)

	dealt := make([]*catalog.Card, 0, len(cards))
	for range cards {
		dealt = append(dealt, s.Deal())
	}
	assert.ElementsMatch(t, cards, dealt)
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, len(cards), s.Len())
}

func TestDeal_TwoPassesAreBothPermutations(t *testing.T) {
	for _, k := range []int{1, 2, 5, 16} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			cards := bucket(k)
			s, err := New(cards, random.NewSeeded(uint64(k)))
			require.NoError(t, err)

			dealt := make([]*catalog.Card, 0, 2*k)
			for i := 0; i < 2*k; i++ {
				dealt = append(dealt, s.Deal())
			}
			assert.ElementsMatch(t, cards, dealt[:k], "first pass")
			assert.ElementsMatch(t, cards, dealt[k:], "second pass")
			assert.Equal(t, k, s.Len(), "bucket size is constant")
		})
	}
}

func TestDeal_SizeInvariant(t *testing.T) {
	s, err := New(bucket(4), random.NewSeeded(9))
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		s.Deal()
		if s.Len() != 4 {
			t.Fatalf("after %d deals Len() = %d, want 4", i+1, s.Len())
		}
	}
}

func TestDeal_DoesNotModifyInput(t *testing.T) {
	cards := bucket(5)
	orig := append([]*catalog.Card(nil), cards...)

	s, err := New(cards, random.NewSeeded(2))
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		s.Deal()
	}
	assert.Equal(t, orig, cards)
}
