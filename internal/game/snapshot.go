// internal/game/snapshot.go
package game

import (
	"github.com/google/uuid"

	"github.com/harideal/harideal/internal/models"
)

// CardSnapshot is the wire form of a card, flattened from the catalog
// definition so clients never need the catalog tables.
type CardSnapshot struct {
	ID       int               `json:"id"`
	Kind     models.CardKind   `json:"kind"`
	Name     string            `json:"name"`
	Value    int               `json:"value"`
	Color    models.Color      `json:"color,omitempty"`
	Colors   []models.Color    `json:"colors,omitempty"`
	AnyColor bool              `json:"anyColor,omitempty"`
	Action   models.ActionType `json:"action,omitempty"`
	Text     string            `json:"text,omitempty"`
}

// PlayerSnapshot is one seat as seen by a specific viewer. Hand is populated
// only for the viewer's own seat; everyone else gets HandCount.
type PlayerSnapshot struct {
	ID         uuid.UUID                       `json:"id"`
	Name       string                          `json:"name"`
	HandCount  int                             `json:"handCount"`
	Hand       []CardSnapshot                  `json:"hand,omitempty"`
	Bank       []CardSnapshot                  `json:"bank"`
	Properties map[models.Color][]CardSnapshot `json:"properties"`
	IsAI       bool                            `json:"isAI"`
	Connected  bool                            `json:"connected"`
	IsCurrent  bool                            `json:"isCurrentTurn"`
}

// GameSnapshot is the full broadcastable state for one viewer.
type GameSnapshot struct {
	GameID             uuid.UUID        `json:"gameId"`
	RoomCode           string           `json:"roomCode"`
	Status             Status           `json:"status"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	TurnMovesLeft      int              `json:"turnMovesLeft"`
	DeckCount          int              `json:"deckCount"`
	DiscardCount       int              `json:"discardCount"`
	DiscardTop         *CardSnapshot    `json:"discardTop,omitempty"`
	Players            []PlayerSnapshot `json:"players"`
	Logs               []string         `json:"logs"`
}

func snapshotCard(c *models.Card) CardSnapshot {
	return CardSnapshot{
		ID:       c.ID,
		Kind:     c.Kind,
		Name:     c.Name,
		Value:    c.Value,
		Color:    c.Def.PropertyColor,
		Colors:   c.Def.Colors,
		AnyColor: c.Def.AnyColor,
		Action:   c.Def.Action,
		Text:     c.Def.Text,
	}
}

func snapshotCards(cards []*models.Card) []CardSnapshot {
	out := make([]CardSnapshot, len(cards))
	for i, c := range cards {
		out[i] = snapshotCard(c)
	}
	return out
}

// Snapshot generates the game state as seen by one viewer. Opponents' hands
// are reduced to counts; bank and property contents are public.
func (g *DealGame) Snapshot(forPlayer uuid.UUID) GameSnapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	snap := GameSnapshot{
		GameID:             g.ID,
		RoomCode:           g.RoomCode,
		Status:             g.Status,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		TurnMovesLeft:      g.TurnMovesLeft,
		DeckCount:          len(g.Deck),
		DiscardCount:       len(g.DiscardPile),
		Logs:               append([]string(nil), g.Logs...),
	}
	if n := len(g.DiscardPile); n > 0 {
		top := snapshotCard(g.DiscardPile[n-1])
		snap.DiscardTop = &top
	}

	for i, p := range g.Players {
		ps := PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			HandCount:  len(p.Hand),
			Bank:       snapshotCards(p.Bank),
			Properties: make(map[models.Color][]CardSnapshot),
			IsAI:       p.IsAI,
			Connected:  p.Connected,
			IsCurrent:  i == g.CurrentPlayerIndex,
		}
		for color, cards := range p.Properties {
			if len(cards) > 0 {
				ps.Properties[color] = snapshotCards(cards)
			}
		}
		if p.ID == forPlayer {
			ps.Hand = snapshotCards(p.Hand)
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
