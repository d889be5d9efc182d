// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat at the table. Hand order is irrelevant to the rules but
// only visible to the owner; Bank and Properties are public. Properties maps
// a concrete color to the ordered cards assigned to that slot (most recently
// played last).
type Player struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Hand       []*Card           `json:"hand"`
	Bank       []*Card           `json:"bank"`
	Properties map[Color][]*Card `json:"properties"`
	IsAI       bool              `json:"isAI"`

	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// NewPlayer returns a seated player with empty containers.
func NewPlayer(id uuid.UUID, name string) *Player {
	return &Player{
		ID:         id,
		Name:       name,
		Hand:       []*Card{},
		Bank:       []*Card{},
		Properties: make(map[Color][]*Card),
	}
}

// HandIndex returns the position of a card id in the player's hand, or -1.
func (p *Player) HandIndex(cardID int) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// RemoveFromHand removes and returns the hand card with the given id, or nil.
func (p *Player) RemoveFromHand(cardID int) *Card {
	idx := p.HandIndex(cardID)
	if idx == -1 {
		return nil
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card
}
