// internal/game/game_test.go
package game

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harideal/harideal/internal/models"
)

// newStartedGame seats n players and forces the playing state with a
// deterministic unshuffled deck and empty hands, bypassing Start's shuffle
// and deal so tests can stage exact scenarios.
func newStartedGame(t *testing.T, n int) (*DealGame, []*models.Player) {
	t.Helper()
	g := NewDealGame("TEST")
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddPlayer(fmt.Sprintf("Player%d", i+1), uuid.New()))
	}
	g.Deck = buildDeck()
	g.Status = StatusPlaying
	g.CurrentPlayerIndex = 0
	g.TurnMovesLeft = movesPerTurn
	return g, g.Players
}

// takeFromDeck removes and returns the first deck card matching pred so a
// test can place it wherever the scenario needs it.
func takeFromDeck(t *testing.T, g *DealGame, pred func(*models.Card) bool) *models.Card {
	t.Helper()
	for i, c := range g.Deck {
		if pred(c) {
			g.Deck = append(g.Deck[:i], g.Deck[i+1:]...)
			return c
		}
	}
	t.Fatal("no matching card left in deck")
	return nil
}

func byAction(a models.ActionType) func(*models.Card) bool {
	return func(c *models.Card) bool {
		return c.Kind == models.KindAction && c.Def.Action == a
	}
}

func byProperty(color models.Color) func(*models.Card) bool {
	return func(c *models.Card) bool {
		return c.Kind == models.KindProperty && c.Def.PropertyColor == color
	}
}

func byMoney(value int) func(*models.Card) bool {
	return func(c *models.Card) bool {
		return c.Kind == models.KindMoney && c.Value == value
	}
}

func byRentFor(color models.Color) func(*models.Card) bool {
	return func(c *models.Card) bool {
		return c.Kind == models.KindRent && !c.Def.AnyColor && c.EligibleFor(color)
	}
}

func byAnyRent(c *models.Card) bool {
	return c.Kind == models.KindRent && c.Def.AnyColor
}

func byWildFor(color models.Color) func(*models.Card) bool {
	return func(c *models.Card) bool {
		return c.Kind == models.KindWild && !c.Def.AnyColor && c.EligibleFor(color)
	}
}

// givePropertySet moves a full color set from the deck into a player's slot.
func givePropertySet(t *testing.T, g *DealGame, p *models.Player, color models.Color) {
	t.Helper()
	for i := 0; i < Colors[color].CompleteCount; i++ {
		p.Properties[color] = append(p.Properties[color], takeFromDeck(t, g, byProperty(color)))
	}
}

// totalCards counts every card in the game regardless of zone.
func totalCards(g *DealGame) int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.Hand) + len(p.Bank)
		for _, slot := range p.Properties {
			n += len(slot)
		}
	}
	return n
}

// TestStartDealsHands runs the real Start path: shuffle, deal 5, first turn
// draws 2.
func TestStartDealsHands(t *testing.T) {
	g := NewDealGame("TEST")
	require.NoError(t, g.AddPlayer("Asha", uuid.New()))
	require.NoError(t, g.AddPlayer("Ravi", uuid.New()))
	require.NoError(t, g.Start())

	assert.Equal(t, StatusPlaying, g.Status)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, movesPerTurn, g.TurnMovesLeft)
	assert.Len(t, g.Players[0].Hand, 7, "first player holds 5 dealt + 2 drawn")
	assert.Len(t, g.Players[1].Hand, 5)
	assert.Equal(t, CatalogSize()-12, len(g.Deck))
	assert.Equal(t, CatalogSize(), totalCards(g))
}

// TestStartRequiresTwoPlayers rejects a solo start.
func TestStartRequiresTwoPlayers(t *testing.T) {
	g := NewDealGame("TEST")
	require.NoError(t, g.AddPlayer("Asha", uuid.New()))
	assert.Error(t, g.Start())
}

// TestAddPlayerAfterStart verifies seating closes once the game begins.
func TestAddPlayerAfterStart(t *testing.T) {
	g, _ := newStartedGame(t, 2)
	err := g.AddPlayer("Late", uuid.New())
	assert.ErrorIs(t, err, ErrLobbyOnly)
}

// TestPlayCardGates covers the turn-order and hand-membership checks.
func TestPlayCardGates(t *testing.T) {
	g, players := newStartedGame(t, 2)

	// Not the second player's turn.
	err := g.PlayCard(players[1].ID, 1, models.PlayCommand{Mode: models.ModeBank})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// Current player, but the card is not in their hand.
	err = g.PlayCard(players[0].ID, 999, models.PlayCommand{Mode: models.ModeBank})
	assert.ErrorIs(t, err, ErrCardNotInHand)

	// Unknown mode.
	bill := takeFromDeck(t, g, byMoney(1))
	players[0].Hand = append(players[0].Hand, bill)
	err = g.PlayCard(players[0].ID, bill.ID, models.PlayCommand{Mode: "juggle"})
	assert.ErrorIs(t, err, ErrIllegalMode)
	assert.Len(t, players[0].Hand, 1, "rejected play must not move the card")
}

// TestMoveBudget allows exactly three plays per turn.
func TestMoveBudget(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]
	for i := 0; i < 4; i++ {
		actor.Hand = append(actor.Hand, takeFromDeck(t, g, byMoney(1)))
	}

	for i := 0; i < 3; i++ {
		card := actor.Hand[0]
		require.NoError(t, g.PlayCard(actor.ID, card.ID, models.PlayCommand{Mode: models.ModeBank}))
	}
	assert.Equal(t, 0, g.TurnMovesLeft)

	err := g.PlayCard(actor.ID, actor.Hand[0].ID, models.PlayCommand{Mode: models.ModeBank})
	assert.ErrorIs(t, err, ErrNoMovesLeft)
	assert.Len(t, actor.Bank, 3)
	assert.Len(t, actor.Hand, 1)
}

// TestBankAnyCard verifies any card, including actions, can be banked at its
// face value.
func TestBankAnyCard(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]
	jsn := takeFromDeck(t, g, byAction(models.ActionJustSayNo))
	actor.Hand = append(actor.Hand, jsn)

	require.NoError(t, g.PlayCard(actor.ID, jsn.ID, models.PlayCommand{Mode: models.ModeBank}))
	require.Len(t, actor.Bank, 1)
	assert.Equal(t, 4, actor.Bank[0].Value)
	assert.Empty(t, actor.Hand)
}

// TestPropertyPlacement covers intrinsic colors, wild target requirements and
// completed-set protection.
func TestPropertyPlacement(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]

	prop := takeFromDeck(t, g, byProperty(models.ColorBrown))
	actor.Hand = append(actor.Hand, prop)
	require.NoError(t, g.PlayCard(actor.ID, prop.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{},
	}))
	assert.Len(t, actor.Properties[models.ColorBrown], 1, "plain property lands on its own color")

	// A wild needs an explicit eligible color.
	wild := takeFromDeck(t, g, byWildFor(models.ColorBrown))
	actor.Hand = append(actor.Hand, wild)
	err := g.PlayCard(actor.ID, wild.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{},
	})
	assert.ErrorIs(t, err, ErrMissingTarget)

	err = g.PlayCard(actor.ID, wild.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorGreen},
	})
	assert.ErrorIs(t, err, ErrIllegalMode, "wild not eligible for green")

	require.NoError(t, g.PlayCard(actor.ID, wild.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorBrown},
	}))
	assert.Equal(t, 2, setSize(actor, models.ColorBrown))

	// Brown is now complete (2 cards); further cards are rejected.
	extra := takeFromDeck(t, g, byProperty(models.ColorBrown))
	actor.Hand = append(actor.Hand, extra)
	err = g.PlayCard(actor.ID, extra.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{},
	})
	assert.ErrorIs(t, err, ErrSetProtected)
}

// TestBuildingPlacement covers House and Hotel rules.
func TestBuildingPlacement(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]
	givePropertySet(t, g, actor, models.ColorGreen)
	givePropertySet(t, g, actor, models.ColorRailroad)

	house := takeFromDeck(t, g, byAction(models.ActionHouse))
	hotel := takeFromDeck(t, g, byAction(models.ActionHotel))
	actor.Hand = append(actor.Hand, house, hotel)

	// Hotel before House is rejected.
	err := g.PlayCard(actor.ID, hotel.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorGreen},
	})
	assert.ErrorIs(t, err, ErrSetNotComplete)

	// House on a railroad set is rejected.
	err = g.PlayCard(actor.ID, house.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorRailroad},
	})
	assert.ErrorIs(t, err, ErrIllegalMode)

	require.NoError(t, g.PlayCard(actor.ID, house.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorGreen},
	}))
	require.NoError(t, g.PlayCard(actor.ID, hotel.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{Color: models.ColorGreen},
	}))

	assert.Equal(t, 3, setSize(actor, models.ColorGreen), "buildings never count toward completion")
	assert.Equal(t, 7+3+4, g.calculateRent(actor, models.ColorGreen))

	// Houses cannot be played as effects either.
	house2 := takeFromDeck(t, g, byAction(models.ActionHouse))
	actor.Hand = append(actor.Hand, house2)
	err = g.PlayCard(actor.ID, house2.ID, models.PlayCommand{
		Mode:   models.ModeAction,
		Action: &models.ActionPlay{},
	})
	assert.ErrorIs(t, err, ErrIllegalMode)
}

// TestEndTurnHandLimit enforces the seven-card limit and the discard escape
// hatch.
func TestEndTurnHandLimit(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]
	// Eight cards, drawn within the catalog's per-value copy counts.
	for i := 0; i < 4; i++ {
		actor.Hand = append(actor.Hand, takeFromDeck(t, g, byMoney(1)))
	}
	for i := 0; i < 4; i++ {
		actor.Hand = append(actor.Hand, takeFromDeck(t, g, byMoney(2)))
	}
	players[1].Hand = append(players[1].Hand, takeFromDeck(t, g, byMoney(3)))

	err := g.EndTurn(actor.ID)
	assert.ErrorIs(t, err, ErrDiscardRequired)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "turn must not advance")

	// Discarding consumes no move.
	movesBefore := g.TurnMovesLeft
	require.NoError(t, g.DiscardCard(actor.ID, actor.Hand[0].ID))
	assert.Equal(t, movesBefore, g.TurnMovesLeft)
	assert.Len(t, g.DiscardPile, 1)

	require.NoError(t, g.EndTurn(actor.ID))
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, movesPerTurn, g.TurnMovesLeft)
	assert.Len(t, players[1].Hand, 3, "next player draws 2 at turn start")
}

// TestEmptyHandDrawsFive verifies the empty-hand turn start rule.
func TestEmptyHandDrawsFive(t *testing.T) {
	g, players := newStartedGame(t, 2)
	require.NoError(t, g.EndTurn(players[0].ID))
	assert.Len(t, players[1].Hand, 5)
}

// TestWinByThirdSet verifies the game ends the moment a third set completes,
// and that the end hook fires.
func TestWinByThirdSet(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor := players[0]
	givePropertySet(t, g, actor, models.ColorBrown)
	givePropertySet(t, g, actor, models.ColorDarkBlue)
	actor.Properties[models.ColorUtility] = append(actor.Properties[models.ColorUtility],
		takeFromDeck(t, g, byProperty(models.ColorUtility)))

	var winner uuid.UUID
	g.OnGameEnd = func(ended *DealGame, winnerID uuid.UUID) {
		winner = winnerID
	}

	last := takeFromDeck(t, g, byProperty(models.ColorUtility))
	actor.Hand = append(actor.Hand, last)
	require.NoError(t, g.PlayCard(actor.ID, last.ID, models.PlayCommand{
		Mode:     models.ModeProperty,
		Property: &models.PropertyPlay{},
	}))

	assert.Equal(t, StatusEnded, g.Status)
	assert.Equal(t, actor.ID, winner)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "WINS")

	// No further commands are accepted.
	err := g.EndTurn(actor.ID)
	assert.ErrorIs(t, err, ErrGameOver)
}

// TestWinViaForcedPayment verifies the check covers every player: a payment
// that completes the payee's third set ends the game even though the payer
// issued no winning move of their own.
func TestWinViaForcedPayment(t *testing.T) {
	g, players := newStartedGame(t, 2)
	actor, victim := players[0], players[1]
	givePropertySet(t, g, actor, models.ColorBrown)
	givePropertySet(t, g, actor, models.ColorDarkBlue)
	actor.Properties[models.ColorUtility] = append(actor.Properties[models.ColorUtility],
		takeFromDeck(t, g, byProperty(models.ColorUtility)))

	// The victim has no bank, only the utility the actor is missing.
	victim.Properties[models.ColorUtility] = append(victim.Properties[models.ColorUtility],
		takeFromDeck(t, g, byProperty(models.ColorUtility)))

	debt := takeFromDeck(t, g, byAction(models.ActionDebtCollector))
	actor.Hand = append(actor.Hand, debt)
	require.NoError(t, g.PlayCard(actor.ID, debt.ID, models.PlayCommand{
		Mode:   models.ModeAction,
		Action: &models.ActionPlay{TargetPlayerID: victim.ID},
	}))

	assert.Equal(t, StatusEnded, g.Status)
	assert.Equal(t, 2, setSize(actor, models.ColorUtility))
}

// TestCardConservation plays through a mixed sequence and confirms no card is
// ever created or destroyed.
func TestCardConservation(t *testing.T) {
	g := NewDealGame("TEST")
	require.NoError(t, g.AddPlayer("Asha", uuid.New()))
	require.NoError(t, g.AddPlayer("Ravi", uuid.New()))
	require.NoError(t, g.Start())

	for turn := 0; turn < 6 && g.Status == StatusPlaying; turn++ {
		p := g.Players[g.CurrentPlayerIndex]
		// Bank up to two cards, then end the turn, discarding down if needed.
		for moves := 0; moves < 2 && len(p.Hand) > 0; moves++ {
			_ = g.PlayCard(p.ID, p.Hand[0].ID, models.PlayCommand{Mode: models.ModeBank})
		}
		for len(p.Hand) > handLimit {
			require.NoError(t, g.DiscardCard(p.ID, p.Hand[0].ID))
		}
		require.NoError(t, g.EndTurn(p.ID))
		assert.Equal(t, CatalogSize(), totalCards(g))
	}
}

// TestCommandsBeforeStart verifies every command is rejected in the lobby.
func TestCommandsBeforeStart(t *testing.T) {
	g := NewDealGame("TEST")
	id := uuid.New()
	require.NoError(t, g.AddPlayer("Asha", id))

	assert.ErrorIs(t, g.PlayCard(id, 1, models.PlayCommand{Mode: models.ModeBank}), ErrGameNotStarted)
	assert.ErrorIs(t, g.DiscardCard(id, 1), ErrGameNotStarted)
	assert.ErrorIs(t, g.EndTurn(id), ErrGameNotStarted)
}
