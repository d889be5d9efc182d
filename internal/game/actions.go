// internal/game/actions.go
package game

import (
	"fmt"

	"github.com/harideal/harideal/internal/models"
)

// resolveActionEffect validates an action or rent card's target data and
// returns the mutation to run once the card has been discarded. Validation
// never mutates; the returned apply func assumes the lock is still held.
func (g *DealGame) resolveActionEffect(actor *models.Player, card *models.Card, target *models.ActionPlay) (func(), error) {
	if target == nil {
		target = &models.ActionPlay{}
	}
	if card.Kind == models.KindRent {
		return g.resolveRent(actor, card, target)
	}

	switch card.Def.Action {
	case models.ActionPassGo:
		return func() {
			for i := 0; i < 2; i++ {
				drawn, err := g.drawCard()
				if err != nil {
					g.appendLog("No cards left to draw.")
					return
				}
				actor.Hand = append(actor.Hand, drawn)
			}
			g.appendLog(fmt.Sprintf("%s drew 2 extra cards.", actor.Name))
		}, nil

	case models.ActionItsMyBirthday:
		return func() {
			for _, p := range g.Players {
				if p.ID != actor.ID {
					g.transferFunds(p, actor, 2)
				}
			}
		}, nil

	case models.ActionDebtCollector:
		victim := g.getPlayerByID(target.TargetPlayerID)
		if victim == nil || victim.ID == actor.ID {
			return nil, ErrUnknownPlayer
		}
		return func() {
			g.transferFunds(victim, actor, 2)
		}, nil

	case models.ActionSlyDeal:
		return g.resolveSlyDeal(actor, target)

	case models.ActionForcedDeal:
		return g.resolveForcedDeal(actor, target)

	case models.ActionDealBreaker:
		return g.resolveDealBreaker(actor, target)

	case models.ActionJustSayNo:
		// The interactive counter-play stack is deliberately not modeled;
		// banking the card is the only way to spend it.
		return nil, ErrUnimplemented

	case models.ActionDoubleTheRent:
		// Only playable alongside a rent card via DoubleRentCardID.
		return nil, ErrIllegalMode

	default:
		return nil, ErrUnimplemented
	}
}

// resolveRent validates the rent color choice and optional doubling card,
// then charges every other player.
func (g *DealGame) resolveRent(actor *models.Player, card *models.Card, target *models.ActionPlay) (func(), error) {
	color := target.SelectedColor
	if color == "" {
		// A pair-restricted rent defaults to its first eligible color; an
		// any-color rent needs an explicit selection.
		if card.Def.AnyColor {
			return nil, ErrMissingTarget
		}
		color = card.Def.Colors[0]
	}
	if _, ok := Colors[color]; !ok {
		// Catches the "any" sentinel and arbitrary strings alike; an
		// any-color card is still restricted to real colors.
		return nil, ErrMissingTarget
	}
	if !card.EligibleFor(color) {
		return nil, ErrIllegalMode
	}

	// Doubling requires the Double the Rent card itself, discarded in the
	// same atomic command; a bare flag is not trusted.
	var doubler *models.Card
	if target.DoubleRentCardID != 0 {
		idx := actor.HandIndex(target.DoubleRentCardID)
		if idx == -1 {
			return nil, ErrCardNotInHand
		}
		doubler = actor.Hand[idx]
		if doubler.Kind != models.KindAction || doubler.Def.Action != models.ActionDoubleTheRent {
			return nil, ErrIllegalMode
		}
	}

	return func() {
		amount := g.calculateRent(actor, color)
		if doubler != nil {
			actor.RemoveFromHand(doubler.ID)
			g.DiscardPile = append(g.DiscardPile, doubler)
			amount *= 2
			g.appendLog(fmt.Sprintf("%s doubled the rent with %s.", actor.Name, doubler.Name))
		}
		g.appendLog(fmt.Sprintf("%s charges %d rent on %s.", actor.Name, amount, Colors[color].Name))
		for _, p := range g.Players {
			if p.ID != actor.ID {
				g.transferFunds(p, actor, amount)
			}
		}
	}, nil
}

// resolveSlyDeal steals one property card, unless the victim's set is
// complete.
func (g *DealGame) resolveSlyDeal(actor *models.Player, target *models.ActionPlay) (func(), error) {
	victim := g.getPlayerByID(target.TargetPlayerID)
	if victim == nil || victim.ID == actor.ID {
		return nil, ErrUnknownPlayer
	}
	color := target.PropertyColor
	if _, ok := Colors[color]; !ok {
		return nil, ErrMissingTarget
	}
	if err := g.checkStealable(victim, color, target.PropertyID); err != nil {
		return nil, err
	}
	propertyID := target.PropertyID
	return func() {
		prop := removeFromSlot(victim, color, propertyID)
		if prop == nil {
			return
		}
		actor.Properties[color] = append(actor.Properties[color], prop)
		g.appendLog(fmt.Sprintf("%s stole %s from %s.", actor.Name, prop.Name, victim.Name))
	}, nil
}

// resolveForcedDeal swaps one of the actor's properties for one of the
// victim's. The victim's card keeps the reference protection for completed
// sets.
func (g *DealGame) resolveForcedDeal(actor *models.Player, target *models.ActionPlay) (func(), error) {
	victim := g.getPlayerByID(target.TargetPlayerID)
	if victim == nil || victim.ID == actor.ID {
		return nil, ErrUnknownPlayer
	}
	takeColor := target.PropertyColor
	giveColor := target.GiveColor
	if _, ok := Colors[takeColor]; !ok {
		return nil, ErrMissingTarget
	}
	if _, ok := Colors[giveColor]; !ok {
		return nil, ErrMissingTarget
	}
	if err := g.checkStealable(victim, takeColor, target.PropertyID); err != nil {
		return nil, err
	}
	// The offered card is held to the same rule: completed sets cannot be
	// broken up, not even by their owner.
	if slotIndex(actor, giveColor, target.GivePropertyID) == -1 {
		return nil, ErrCardNotInHand
	}
	if setSize(actor, giveColor) >= Colors[giveColor].CompleteCount {
		return nil, ErrSetProtected
	}
	takeID, giveID := target.PropertyID, target.GivePropertyID
	return func() {
		taken := removeFromSlot(victim, takeColor, takeID)
		given := removeFromSlot(actor, giveColor, giveID)
		if taken == nil || given == nil {
			return
		}
		actor.Properties[takeColor] = append(actor.Properties[takeColor], taken)
		victim.Properties[giveColor] = append(victim.Properties[giveColor], given)
		g.appendLog(fmt.Sprintf("%s swapped %s for %s with %s.", actor.Name, given.Name, taken.Name, victim.Name))
	}, nil
}

// resolveDealBreaker takes a victim's completed set wholesale, buildings
// included.
func (g *DealGame) resolveDealBreaker(actor *models.Player, target *models.ActionPlay) (func(), error) {
	victim := g.getPlayerByID(target.TargetPlayerID)
	if victim == nil || victim.ID == actor.ID {
		return nil, ErrUnknownPlayer
	}
	color := target.SetColor
	if _, ok := Colors[color]; !ok {
		return nil, ErrMissingTarget
	}
	if setSize(victim, color) < Colors[color].CompleteCount {
		return nil, ErrSetNotComplete
	}
	return func() {
		taken := victim.Properties[color]
		victim.Properties[color] = nil
		actor.Properties[color] = append(actor.Properties[color], taken...)
		g.appendLog(fmt.Sprintf("%s stole the %s set from %s.", actor.Name, Colors[color].Name, victim.Name))
	}, nil
}

// checkStealable verifies a single card can be taken from a victim's slot:
// the card must be there and the set must not be complete.
func (g *DealGame) checkStealable(victim *models.Player, color models.Color, cardID int) error {
	if slotIndex(victim, color, cardID) == -1 {
		return ErrCardNotInHand
	}
	if setSize(victim, color) >= Colors[color].CompleteCount {
		return ErrSetProtected
	}
	return nil
}

// slotIndex returns the position of a card id within a color slot, or -1.
func slotIndex(player *models.Player, color models.Color, cardID int) int {
	for i, c := range player.Properties[color] {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// removeFromSlot removes and returns the slot card with the given id, or nil.
func removeFromSlot(player *models.Player, color models.Color, cardID int) *models.Card {
	idx := slotIndex(player, color, cardID)
	if idx == -1 {
		return nil
	}
	card := player.Properties[color][idx]
	player.Properties[color] = append(player.Properties[color][:idx], player.Properties[color][idx+1:]...)
	return card
}
