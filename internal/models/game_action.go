// internal/models/game_action.go
package models

import "github.com/google/uuid"

// PlayMode is the discriminant for a PlayCommand.
type PlayMode string

const (
	ModeBank     PlayMode = "bank"
	ModeProperty PlayMode = "property"
	ModeAction   PlayMode = "action"
)

// PlayCommand is the tagged command a client sends to play one card. Mode
// selects which payload variant is read; the engine validates the variant at
// the boundary instead of pulling fields out of a free-form blob.
type PlayCommand struct {
	Mode PlayMode `json:"mode"`

	Property *PropertyPlay `json:"property,omitempty"`
	Action   *ActionPlay   `json:"action,omitempty"`
}

// PropertyPlay targets a color slot. Color may be empty for plain property
// cards (the card's intrinsic color applies); wild, house and hotel cards
// require it.
type PropertyPlay struct {
	Color Color `json:"color,omitempty"`
}

// ActionPlay carries the target data for action and rent cards. Each effect
// reads only the fields it needs and rejects the command when a required
// field is missing.
type ActionPlay struct {
	// Rent cards.
	SelectedColor    Color `json:"selectedColor,omitempty"`
	DoubleRentCardID int   `json:"doubleRentCardId,omitempty"`

	// Targeted effects (Debt Collector, Sly Deal, Forced Deal, Deal Breaker).
	TargetPlayerID uuid.UUID `json:"targetPlayerId,omitempty"`

	// Sly Deal / Forced Deal: the victim's card and its slot color.
	PropertyColor Color `json:"propertyColor,omitempty"`
	PropertyID    int   `json:"propertyId,omitempty"`

	// Forced Deal: the card the acting player offers in exchange.
	GiveColor      Color `json:"giveColor,omitempty"`
	GivePropertyID int   `json:"givePropertyId,omitempty"`

	// Deal Breaker: the completed set to take.
	SetColor Color `json:"setColor,omitempty"`
}
