// internal/models/card.go
package models

import "fmt"

// CardKind discriminates the five kinds of catalog entries.
type CardKind string

const (
	KindProperty CardKind = "property"
	KindAction   CardKind = "action"
	KindMoney    CardKind = "money"
	KindRent     CardKind = "rent"
	KindWild     CardKind = "wild"
)

// Color names one of the ten property sets.
type Color string

const (
	ColorBrown     Color = "brown"
	ColorLightBlue Color = "lightBlue"
	ColorPink      Color = "pink"
	ColorOrange    Color = "orange"
	ColorRed       Color = "red"
	ColorYellow    Color = "yellow"
	ColorGreen     Color = "green"
	ColorDarkBlue  Color = "darkBlue"
	ColorRailroad  Color = "railroad"
	ColorUtility   Color = "utility"
)

// ColorAny is the sentinel used by multi-color rent and wild cards. It is
// never a valid key in a player's property map; callers must resolve it to a
// concrete color before rent lookup or placement.
const ColorAny Color = "any"

// ActionType identifies an action card's effect.
type ActionType string

const (
	ActionDealBreaker   ActionType = "DEAL_BREAKER"
	ActionSlyDeal       ActionType = "SLY_DEAL"
	ActionForcedDeal    ActionType = "FORCED_DEAL"
	ActionDebtCollector ActionType = "DEBT_COLLECTOR"
	ActionItsMyBirthday ActionType = "ITS_MY_BIRTHDAY"
	ActionPassGo        ActionType = "PASS_GO"
	ActionJustSayNo     ActionType = "JUST_SAY_NO"
	ActionDoubleTheRent ActionType = "DOUBLE_THE_RENT"
	ActionHouse         ActionType = "HOUSE"
	ActionHotel         ActionType = "HOTEL"
	// ActionRent is a synthetic identifier for rent-kind cards so the effect
	// dispatch can treat them uniformly with action cards.
	ActionRent ActionType = "RENT"
)

// CardDef is an immutable catalog entry. Exactly one of the kind-specific
// field groups is meaningful depending on Kind.
type CardDef struct {
	Kind  CardKind
	Name  string
	Value int

	// Property fields.
	PropertyColor Color

	// Action fields.
	Action ActionType
	Text   string

	// Rent / wild fields. Empty with AnyColor=true means "any color".
	Colors   []Color
	AnyColor bool
}

// Card is a concrete instance of a CardDef. IDs are assigned once at deck
// construction, strictly increasing in catalog order, and stay stable for the
// life of the game.
type Card struct {
	ID    int      `json:"id"`
	Def   *CardDef `json:"-"`
	Kind  CardKind `json:"kind"`
	Name  string   `json:"name"`
	Value int      `json:"value"`
}

// NewCard binds an id to a catalog definition.
func NewCard(id int, def *CardDef) *Card {
	name := def.Name
	if name == "" && def.Kind == KindMoney {
		name = fmt.Sprintf("$%dM Money", def.Value)
	}
	return &Card{
		ID:    id,
		Def:   def,
		Kind:  def.Kind,
		Name:  name,
		Value: def.Value,
	}
}

// EligibleFor reports whether a rent or wild card may be used for the given
// concrete color.
func (c *Card) EligibleFor(color Color) bool {
	if c.Def.AnyColor {
		return color != ColorAny
	}
	for _, col := range c.Def.Colors {
		if col == color {
			return true
		}
	}
	return false
}
