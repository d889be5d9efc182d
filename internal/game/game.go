// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harideal/harideal/internal/cache"
	"github.com/harideal/harideal/internal/models"
)

// Status is the game lifecycle state. Ended is terminal.
type Status string

const (
	StatusLobby   Status = "LOBBY"
	StatusPlaying Status = "PLAYING"
	StatusEnded   Status = "ENDED"
)

// movesPerTurn is the play budget reset at every turn start.
const movesPerTurn = 3

// handLimit is the maximum hand size allowed when ending a turn.
const handLimit = 7

// OnGameEndFunc handles a finished game (persisting results, notifying the
// room, etc.).
type OnGameEndFunc func(g *DealGame, winnerID uuid.UUID)

// DealGame holds the entire authoritative state for a single room's game.
// All commands run to completion under Mu; callers serialize access per room.
// Distinct games share no state and may run concurrently.
type DealGame struct {
	ID       uuid.UUID
	RoomCode string

	Players     []*models.Player
	Deck        []*models.Card
	DiscardPile []*models.Card

	CurrentPlayerIndex int
	Status             Status
	TurnMovesLeft      int

	// Logs is the append-only human-readable trail shipped with snapshots.
	Logs []string

	Mu sync.Mutex

	// OnGameEnd is invoked (lock held) when a win condition fires.
	OnGameEnd OnGameEndFunc

	actionIndex int
}

// NewDealGame builds an empty game in the lobby state. The deck is built at
// Start so late joins never race the deal.
func NewDealGame(roomCode string) *DealGame {
	id, _ := uuid.NewRandom()
	return &DealGame{
		ID:          id,
		RoomCode:    roomCode,
		Players:     []*models.Player{},
		Deck:        []*models.Card{},
		DiscardPile: []*models.Card{},
		Status:      StatusLobby,
	}
}

// AddPlayer seats a new player. Only legal in the lobby; rejoining players
// are handled by the transport via MarkConnected.
func (g *DealGame) AddPlayer(name string, id uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != StatusLobby {
		return ErrLobbyOnly
	}
	for _, p := range g.Players {
		if p.ID == id {
			p.Name = name
			return nil
		}
	}
	p := models.NewPlayer(id, name)
	p.Connected = true
	g.Players = append(g.Players, p)
	g.logAction(id, "player_join", map[string]interface{}{"name": name})
	return nil
}

// Start transitions Lobby -> Playing: builds and shuffles the deck, deals 5
// cards to each player, and begins the first turn.
func (g *DealGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Status != StatusLobby {
		return ErrLobbyOnly
	}
	if len(g.Players) < 2 {
		return fmt.Errorf("need at least 2 players, have %d", len(g.Players))
	}

	g.Deck = buildDeck()
	shuffleCards(g.Deck)
	g.Status = StatusPlaying
	g.CurrentPlayerIndex = 0

	for _, p := range g.Players {
		for i := 0; i < 5; i++ {
			card, err := g.drawCard()
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, card)
		}
	}

	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": len(g.Players), "deckSize": len(g.Deck)})
	g.beginTurn()
	return nil
}

// beginTurn resets the move budget and draws the turn-start cards: 2
// normally, 5 when the player's hand is empty (official rule). Assumes lock
// is held.
func (g *DealGame) beginTurn() {
	player := g.Players[g.CurrentPlayerIndex]
	g.TurnMovesLeft = movesPerTurn

	draws := 2
	if len(player.Hand) == 0 {
		draws = 5
	}
	for i := 0; i < draws; i++ {
		card, err := g.drawCard()
		if err != nil {
			g.appendLog("No cards left to draw.")
			break
		}
		player.Hand = append(player.Hand, card)
	}

	g.appendLog(fmt.Sprintf("%s's turn starts.", player.Name))
	g.logAction(player.ID, "turn_start", map[string]interface{}{"handSize": len(player.Hand)})
}

// PlayCard validates and applies one play command. Any validation failure
// returns a typed error without mutating state or consuming a move. A
// successful play consumes exactly one move and re-checks the win condition
// for every player.
func (g *DealGame) PlayCard(playerID uuid.UUID, cardID int, cmd models.PlayCommand) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	switch g.Status {
	case StatusLobby:
		return ErrGameNotStarted
	case StatusEnded:
		return ErrGameOver
	}
	player := g.Players[g.CurrentPlayerIndex]
	if player.ID != playerID {
		return ErrNotYourTurn
	}
	if g.TurnMovesLeft <= 0 {
		return ErrNoMovesLeft
	}
	idx := player.HandIndex(cardID)
	if idx == -1 {
		return ErrCardNotInHand
	}
	card := player.Hand[idx]

	var err error
	switch cmd.Mode {
	case models.ModeBank:
		player.Hand = append(player.Hand[:idx], player.Hand[idx+1:]...)
		player.Bank = append(player.Bank, card)
		g.appendLog(fmt.Sprintf("%s put %s into the bank.", player.Name, card.Name))
		g.logAction(playerID, "play_bank", map[string]interface{}{"cardId": card.ID})
	case models.ModeProperty:
		err = g.playProperty(player, card, cmd.Property)
	case models.ModeAction:
		err = g.playAction(player, card, cmd.Action)
	default:
		err = ErrIllegalMode
	}
	if err != nil {
		return err
	}

	g.TurnMovesLeft--
	g.checkWinCondition()
	return nil
}

// playProperty places a property, wild, house or hotel card into a color
// slot. Assumes lock is held; the card is known to be in the hand.
func (g *DealGame) playProperty(player *models.Player, card *models.Card, target *models.PropertyPlay) error {
	var color models.Color
	if target != nil {
		color = target.Color
	}

	switch card.Kind {
	case models.KindProperty:
		if color == "" {
			color = card.Def.PropertyColor
		}
		if color != card.Def.PropertyColor {
			return ErrIllegalMode
		}
		if setSize(player, color) >= Colors[color].CompleteCount {
			return ErrSetProtected
		}
	case models.KindWild:
		// Wilds must name a target slot at play time.
		if color == "" || color == models.ColorAny {
			return ErrMissingTarget
		}
		if !card.EligibleFor(color) {
			return ErrIllegalMode
		}
		if setSize(player, color) >= Colors[color].CompleteCount {
			return ErrSetProtected
		}
	case models.KindAction:
		if !IsBuilding(card.Def.Action) {
			return ErrIllegalMode
		}
		if err := validateBuilding(player, card.Def.Action, color); err != nil {
			return err
		}
	default:
		return ErrIllegalMode
	}

	player.RemoveFromHand(card.ID)
	player.Properties[color] = append(player.Properties[color], card)
	g.appendLog(fmt.Sprintf("%s played %s as a property.", player.Name, card.Name))
	g.logAction(player.ID, "play_property", map[string]interface{}{"cardId": card.ID, "color": string(color)})
	return nil
}

// validateBuilding enforces House/Hotel placement rules: the target set must
// be complete, Houses may not sit on railroads or utilities, and a Hotel
// needs a House already in place.
func validateBuilding(player *models.Player, action models.ActionType, color models.Color) error {
	if color == "" || color == models.ColorAny {
		return ErrMissingTarget
	}
	if _, ok := Colors[color]; !ok {
		return ErrMissingTarget
	}
	if setSize(player, color) < Colors[color].CompleteCount {
		return ErrSetNotComplete
	}
	switch action {
	case models.ActionHouse:
		if color == models.ColorRailroad || color == models.ColorUtility {
			return ErrIllegalMode
		}
	case models.ActionHotel:
		if !slotHasBuilding(player, color, models.ActionHouse) {
			return ErrSetNotComplete
		}
	}
	return nil
}

// playAction discards an action or rent card and resolves its effect. The
// effect is validated before the card leaves the hand so a rejected command
// changes nothing.
func (g *DealGame) playAction(player *models.Player, card *models.Card, target *models.ActionPlay) error {
	if card.Kind != models.KindAction && card.Kind != models.KindRent {
		return ErrIllegalMode
	}
	if card.Kind == models.KindAction && IsBuilding(card.Def.Action) {
		return ErrIllegalMode
	}

	apply, err := g.resolveActionEffect(player, card, target)
	if err != nil {
		return err
	}

	player.RemoveFromHand(card.ID)
	g.DiscardPile = append(g.DiscardPile, card)
	g.appendLog(fmt.Sprintf("%s played %s.", player.Name, card.Name))
	g.logAction(player.ID, "play_action", map[string]interface{}{"cardId": card.ID, "action": string(card.Def.Action)})
	apply()
	return nil
}

// DiscardCard moves one hand card to the discard pile without consuming a
// move. It exists so a player over the hand limit can discard down before
// retrying EndTurn.
func (g *DealGame) DiscardCard(playerID uuid.UUID, cardID int) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	switch g.Status {
	case StatusLobby:
		return ErrGameNotStarted
	case StatusEnded:
		return ErrGameOver
	}
	player := g.Players[g.CurrentPlayerIndex]
	if player.ID != playerID {
		return ErrNotYourTurn
	}
	card := player.RemoveFromHand(cardID)
	if card == nil {
		return ErrCardNotInHand
	}
	g.DiscardPile = append(g.DiscardPile, card)
	g.appendLog(fmt.Sprintf("%s discarded %s.", player.Name, card.Name))
	g.logAction(playerID, "discard", map[string]interface{}{"cardId": card.ID})
	return nil
}

// EndTurn advances play to the next player. Rejected with ErrDiscardRequired
// while the caller holds more than the hand limit.
func (g *DealGame) EndTurn(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	switch g.Status {
	case StatusLobby:
		return ErrGameNotStarted
	case StatusEnded:
		return ErrGameOver
	}
	player := g.Players[g.CurrentPlayerIndex]
	if player.ID != playerID {
		return ErrNotYourTurn
	}
	if len(player.Hand) > handLimit {
		return ErrDiscardRequired
	}

	g.logAction(playerID, "turn_end", nil)
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	g.beginTurn()
	return nil
}

// checkWinCondition ends the game as soon as any player holds three or more
// completed color sets. All players are checked, not just the actor, so a
// forced transfer that completes an opponent's third set ends the game
// immediately. Assumes lock is held.
func (g *DealGame) checkWinCondition() {
	if g.Status != StatusPlaying {
		return
	}
	for _, player := range g.Players {
		completed := CompletedSets(player)
		if completed >= 3 {
			g.Status = StatusEnded
			g.appendLog(fmt.Sprintf("%s WINS!", player.Name))
			g.logAction(player.ID, "game_end", map[string]interface{}{"completedSets": completed})
			if g.OnGameEnd != nil {
				g.OnGameEnd(g, player.ID)
			}
			return
		}
	}
}

// CompletedSets counts the fully completed color sets a player holds.
func CompletedSets(player *models.Player) int {
	n := 0
	for color, cfg := range Colors {
		if setSize(player, color) >= cfg.CompleteCount {
			n++
		}
	}
	return n
}

// setSize counts the property and wild cards in a color slot. Buildings sit
// in the slot as extra entries but never count toward completion.
func setSize(player *models.Player, color models.Color) int {
	n := 0
	for _, c := range player.Properties[color] {
		if c.Kind == models.KindProperty || c.Kind == models.KindWild {
			n++
		}
	}
	return n
}

// slotHasBuilding reports whether a color slot contains the given building.
func slotHasBuilding(player *models.Player, color models.Color, building models.ActionType) bool {
	for _, c := range player.Properties[color] {
		if c.Kind == models.KindAction && c.Def.Action == building {
			return true
		}
	}
	return false
}

// getPlayerByID returns the player with the given id, or nil. Assumes lock
// is held.
func (g *DealGame) getPlayerByID(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MarkConnected flips a player's connection state. The engine itself stays
// unaware of disconnect policy; the transport owns it.
func (g *DealGame) MarkConnected(playerID uuid.UUID, connected bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == playerID {
			p.Connected = connected
			if !connected {
				p.Conn = nil
			}
			return
		}
	}
}

// appendLog records a human-readable log line. Assumes lock is held.
func (g *DealGame) appendLog(msg string) {
	g.Logs = append(g.Logs, msg)
}

// logAction publishes a structured action record to the historian queue.
// Assumes lock is held.
func (g *DealGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Printf("Error publishing game action %d for game %s: %v", rec.ActionIndex, g.ID, err)
		}
	}(record)
}
