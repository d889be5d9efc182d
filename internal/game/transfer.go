// internal/game/transfer.go
package game

import (
	"fmt"

	"github.com/harideal/harideal/internal/models"
)

// transferFunds settles a debt by moving whole cards from payer to payee:
// bank cards first, most recently banked first, then properties color by
// color in catalog order, most recently played first. No change is ever
// made; a card worth more than the remaining debt still moves whole and the
// overpayment stands. Assumes lock is held.
func (g *DealGame) transferFunds(payer, payee *models.Player, amount int) {
	remaining := amount

	for remaining > 0 && len(payer.Bank) > 0 {
		bill := payer.Bank[len(payer.Bank)-1]
		payer.Bank = payer.Bank[:len(payer.Bank)-1]
		payee.Bank = append(payee.Bank, bill)
		remaining -= bill.Value
		g.appendLog(fmt.Sprintf("%s paid ₹%dM to %s.", payer.Name, bill.Value, payee.Name))
	}

	if remaining <= 0 {
		return
	}

	for _, color := range ColorOrder {
		for remaining > 0 && len(payer.Properties[color]) > 0 {
			n := len(payer.Properties[color])
			prop := payer.Properties[color][n-1]
			payer.Properties[color] = payer.Properties[color][:n-1]
			payee.Properties[color] = append(payee.Properties[color], prop)
			remaining -= prop.Value
			g.appendLog(fmt.Sprintf("%s gave property %s to %s as payment.", payer.Name, prop.Name, payee.Name))
		}
		if remaining <= 0 {
			return
		}
	}
}

// calculateRent returns the rent owed for a player's holdings in a concrete
// color: the schedule entry for min(set size, completion count), plus 3 per
// House and 4 per Hotel in the slot. Empty holdings and the "any" sentinel
// yield 0; callers resolve "any" to a concrete color first.
func (g *DealGame) calculateRent(player *models.Player, color models.Color) int {
	if color == models.ColorAny {
		return 0
	}
	cfg, ok := Colors[color]
	if !ok {
		return 0
	}
	count := setSize(player, color)
	if count == 0 {
		return 0
	}
	if count > cfg.CompleteCount {
		count = cfg.CompleteCount
	}
	rent := cfg.Rent[count-1]

	for _, c := range player.Properties[color] {
		if c.Kind != models.KindAction {
			continue
		}
		switch c.Def.Action {
		case models.ActionHouse:
			rent += 3
		case models.ActionHotel:
			rent += 4
		}
	}
	return rent
}
