// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/harideal/harideal/internal/models"
)

// buildDeck enumerates one Card per catalog unit, assigning strictly
// increasing ids in catalog order: properties, then action cards, money,
// rent cards, wild properties. The result is unshuffled.
func buildDeck() []*models.Card {
	deck := make([]*models.Card, 0, CatalogSize())
	id := 1

	for _, color := range ColorOrder {
		cfg := Colors[color]
		for _, propName := range cfg.Properties {
			def := &models.CardDef{
				Kind:          models.KindProperty,
				Name:          propName,
				Value:         cfg.Value,
				PropertyColor: color,
			}
			deck = append(deck, models.NewCard(id, def))
			id++
		}
	}

	for _, a := range actionCatalog {
		for i := 0; i < a.Count; i++ {
			def := &models.CardDef{
				Kind:   models.KindAction,
				Name:   a.Name,
				Value:  a.Value,
				Action: a.Action,
				Text:   a.Text,
			}
			deck = append(deck, models.NewCard(id, def))
			id++
		}
	}

	for _, m := range moneyCatalog {
		for i := 0; i < m.Count; i++ {
			def := &models.CardDef{Kind: models.KindMoney, Value: m.Value}
			deck = append(deck, models.NewCard(id, def))
			id++
		}
	}

	for _, r := range rentCatalog {
		for i := 0; i < r.Count; i++ {
			def := &models.CardDef{
				Kind:     models.KindRent,
				Name:     "Rent",
				Value:    r.Value,
				Action:   models.ActionRent,
				Colors:   r.Colors,
				AnyColor: r.Colors == nil,
			}
			deck = append(deck, models.NewCard(id, def))
			id++
		}
	}

	for _, w := range wildCatalog {
		for i := 0; i < w.Count; i++ {
			def := &models.CardDef{
				Kind:     models.KindWild,
				Name:     "Wild Property",
				Value:    w.Value,
				Colors:   w.Colors,
				AnyColor: w.Colors == nil,
			}
			deck = append(deck, models.NewCard(id, def))
			id++
		}
	}

	return deck
}

// shuffleCards applies an unbiased Fisher-Yates permutation in place.
func shuffleCards(cards []*models.Card) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// drawCard pops the top card of the deck. When the deck is empty the discard
// pile is reshuffled into a fresh deck first; when both are empty it returns
// ErrDeckExhausted. Assumes lock is held.
func (g *DealGame) drawCard() (*models.Card, error) {
	if len(g.Deck) == 0 {
		if len(g.DiscardPile) == 0 {
			return nil, ErrDeckExhausted
		}
		g.Deck = g.DiscardPile
		g.DiscardPile = []*models.Card{}
		shuffleCards(g.Deck)
		g.appendLog("The discard pile was reshuffled into the deck.")
	}
	card := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return card, nil
}
