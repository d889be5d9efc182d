// internal/handlers/api_server.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"
	"github.com/harideal/harideal/internal/database"
	"github.com/harideal/harideal/internal/game"
	"github.com/harideal/harideal/internal/models"
)

// GameServer is the top-level container for all active rooms. Handlers share
// one instance; the RoomStore does its own locking.
type GameServer struct {
	Rooms *game.RoomStore
}

func NewGameServer() *GameServer {
	return &GameServer{
		Rooms: game.NewRoomStore(),
	}
}

// CreateRoom allocates a new room with a fresh game and wires the game-end
// persistence hook before any player can act on it.
func (gs *GameServer) CreateRoom() (*game.DealGame, error) {
	g, err := gs.Rooms.CreateRoom()
	if err != nil {
		return nil, err
	}
	gs.attachGameEnd(g)
	return g, nil
}

// attachGameEnd installs the OnGameEnd callback. The engine invokes it with
// the game lock held, so the callback copies what it needs and persists
// asynchronously.
func (gs *GameServer) attachGameEnd(g *game.DealGame) {
	g.OnGameEnd = func(ended *game.DealGame, winnerID uuid.UUID) {
		players := make([]*models.Player, len(ended.Players))
		copy(players, ended.Players)
		completedSets := make(map[uuid.UUID]int, len(players))
		for _, p := range players {
			completedSets[p.ID] = game.CompletedSets(p)
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := database.RecordGameAndResults(ctx, ended.ID, players, completedSets, winnerID); err != nil {
				log.Warnf("Failed to record results for game %s: %v", ended.ID, err)
			}
			// Lock is free again by the time this goroutine runs; Snapshot
			// takes it itself.
			final := ended.Snapshot(uuid.Nil)
			if err := database.StoreFinalGameStateInDB(ctx, ended.ID, final); err != nil {
				log.Warnf("Failed to store final state for game %s: %v", ended.ID, err)
			}
		}()
	}
}

// RoomListHandler returns the codes of all live rooms. Handy for ops and
// simple lobby browsers.
func (gs *GameServer) RoomListHandler(w http.ResponseWriter, r *http.Request) {
	codes := gs.Rooms.RoomCodes()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"rooms": codes})
}
