// internal/game/transfer_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harideal/harideal/internal/models"
)

// TestTransferBankFirst pays from the bank most-recently-banked first.
func TestTransferBankFirst(t *testing.T) {
	g, players := newStartedGame(t, 2)
	payer, payee := players[0], players[1]
	first := takeFromDeck(t, g, byMoney(1))
	second := takeFromDeck(t, g, byMoney(3))
	payer.Bank = append(payer.Bank, first, second)

	g.transferFunds(payer, payee, 3)

	require.Len(t, payee.Bank, 1)
	assert.Equal(t, second.ID, payee.Bank[0].ID, "top of the bank goes first")
	assert.Equal(t, []*models.Card{first}, payer.Bank)
}

// TestTransferOverpayment moves whole cards with no change given.
func TestTransferOverpayment(t *testing.T) {
	g, players := newStartedGame(t, 2)
	payer, payee := players[0], players[1]
	payer.Bank = append(payer.Bank, takeFromDeck(t, g, byMoney(5)))

	g.transferFunds(payer, payee, 1)

	assert.Empty(t, payer.Bank)
	require.Len(t, payee.Bank, 1)
	assert.Equal(t, 5, payee.Bank[0].Value)
}

// TestTransferFallsBackToProperties taps property slots once the bank runs
// out, in catalog color order.
func TestTransferFallsBackToProperties(t *testing.T) {
	g, players := newStartedGame(t, 2)
	payer, payee := players[0], players[1]
	payer.Bank = append(payer.Bank, takeFromDeck(t, g, byMoney(1)))
	pink := takeFromDeck(t, g, byProperty(models.ColorPink))
	payer.Properties[models.ColorPink] = append(payer.Properties[models.ColorPink], pink)

	g.transferFunds(payer, payee, 3)

	assert.Empty(t, payer.Bank)
	assert.Empty(t, payer.Properties[models.ColorPink])
	assert.Len(t, payee.Bank, 1)
	assert.Equal(t, []*models.Card{pink}, payee.Properties[models.ColorPink], "property keeps its slot color")
}

// TestTransferShortPayer takes everything the payer has and stops.
func TestTransferShortPayer(t *testing.T) {
	g, players := newStartedGame(t, 2)
	payer, payee := players[0], players[1]
	payer.Bank = append(payer.Bank, takeFromDeck(t, g, byMoney(1)))

	g.transferFunds(payer, payee, 10)

	assert.Empty(t, payer.Bank)
	assert.Len(t, payee.Bank, 1)
}

// TestTransferNeverTouchesHand confirms hands are not payment material.
func TestTransferNeverTouchesHand(t *testing.T) {
	g, players := newStartedGame(t, 2)
	payer, payee := players[0], players[1]
	payer.Hand = append(payer.Hand, takeFromDeck(t, g, byMoney(10)))

	g.transferFunds(payer, payee, 5)

	assert.Len(t, payer.Hand, 1)
	assert.Empty(t, payee.Bank)
}

// TestCalculateRentSchedule checks partial, complete and overfull sets.
func TestCalculateRentSchedule(t *testing.T) {
	g, players := newStartedGame(t, 2)
	p := players[0]

	assert.Equal(t, 0, g.calculateRent(p, models.ColorRed), "no holdings, no rent")

	p.Properties[models.ColorRed] = append(p.Properties[models.ColorRed],
		takeFromDeck(t, g, byProperty(models.ColorRed)))
	assert.Equal(t, 2, g.calculateRent(p, models.ColorRed))

	p.Properties[models.ColorRed] = append(p.Properties[models.ColorRed],
		takeFromDeck(t, g, byProperty(models.ColorRed)),
		takeFromDeck(t, g, byProperty(models.ColorRed)))
	assert.Equal(t, 6, g.calculateRent(p, models.ColorRed))

	// A wild past the completion count stays capped at the top schedule rent.
	wild := takeFromDeck(t, g, byWildFor(models.ColorRed))
	p.Properties[models.ColorRed] = append(p.Properties[models.ColorRed], wild)
	assert.Equal(t, 6, g.calculateRent(p, models.ColorRed))

	assert.Equal(t, 0, g.calculateRent(p, models.ColorAny), "the any sentinel never resolves to rent")
}
