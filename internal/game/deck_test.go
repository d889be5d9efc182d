// internal/game/deck_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harideal/harideal/internal/models"
)

// TestBuildDeckLayout verifies the catalog enumeration: sequential ids from 1
// and the expected count per card kind.
func TestBuildDeckLayout(t *testing.T) {
	deck := buildDeck()
	require.Len(t, deck, CatalogSize())

	counts := map[models.CardKind]int{}
	for i, c := range deck {
		assert.Equal(t, i+1, c.ID, "ids must be sequential in catalog order")
		counts[c.Kind]++
	}

	assert.Equal(t, 28, counts[models.KindProperty])
	assert.Equal(t, 34, counts[models.KindAction])
	assert.Equal(t, 20, counts[models.KindMoney])
	assert.Equal(t, 13, counts[models.KindRent])
	assert.Equal(t, 11, counts[models.KindWild])
}

// TestBuildDeckMoneyNames checks money cards get their synthesized names.
func TestBuildDeckMoneyNames(t *testing.T) {
	deck := buildDeck()
	for _, c := range deck {
		if c.Kind == models.KindMoney {
			assert.NotEmpty(t, c.Name)
			assert.Contains(t, c.Name, "Money")
		}
	}
}

// TestShufflePreservesCards makes sure shuffling is a pure permutation.
func TestShufflePreservesCards(t *testing.T) {
	deck := buildDeck()
	shuffleCards(deck)

	seen := map[int]bool{}
	for _, c := range deck {
		require.False(t, seen[c.ID], "duplicate card id %d after shuffle", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, CatalogSize())
}

// TestDrawReshufflesDiscard verifies the discard pile becomes the new deck
// when the deck runs dry.
func TestDrawReshufflesDiscard(t *testing.T) {
	g := NewDealGame("TEST")
	full := buildDeck()
	g.Deck = nil
	g.DiscardPile = full[:5]

	card, err := g.drawCard()
	require.NoError(t, err)
	assert.NotNil(t, card)
	assert.Empty(t, g.DiscardPile)
	assert.Len(t, g.Deck, 4)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "reshuffled")
}

// TestDrawExhausted verifies the typed error when deck and discard are both
// empty.
func TestDrawExhausted(t *testing.T) {
	g := NewDealGame("TEST")
	card, err := g.drawCard()
	assert.Nil(t, card)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}
