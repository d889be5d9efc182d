// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harideal/harideal/internal/database"
	"github.com/harideal/harideal/internal/game"
	"github.com/harideal/harideal/internal/models"
)

// RoomMessage is the envelope for every client message on the room socket.
// Type selects which of the other fields are read.
type RoomMessage struct {
	Type string `json:"type"`

	// CREATE_ROOM and JOIN_ROOM.
	Name     string `json:"name,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`

	// PLAY_CARD and DISCARD_CARD.
	CardID int                 `json:"cardId,omitempty"`
	Play   *models.PlayCommand `json:"play,omitempty"`
}

// RoomWSHandler upgrades the connection and serves the whole room protocol
// over it: room creation and joining, game start, card plays, discards and
// turn ends. A connection is bound to at most one room at a time.
func RoomWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Authenticate before Accept: minting a guest cookie needs the
		// response headers, which are gone once the connection is hijacked.
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("Room WS authentication failed: %v", err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"harideal"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "harideal" {
			logger.Warnf("Client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(websocket.StatusCode(BadSubprotocolError), "Client must use the 'harideal' subprotocol.")
			return
		}
		logger.Infof("Room WebSocket established for user %s from %s", userID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		g := readRoomMessages(ctx, c, gs, userID, logger)

		// Cleanup after the read loop exits. The player stays seated so they
		// can reconnect; the room just stops writing to this socket.
		if g != nil {
			g.MarkConnected(userID, false)
			name := playerName(g, userID)
			broadcastEvent(g, logger, map[string]interface{}{
				"type":     "PLAYER_LEFT",
				"playerId": userID.String(),
				"name":     name,
			})
			broadcastState(g, logger)
		}
		logger.Infof("Room WebSocket closed for user %s.", userID)
	}
}

// readRoomMessages runs the read loop until the connection drops. It returns
// the game the connection was bound to, if any, so the caller can announce
// the departure.
func readRoomMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, userID uuid.UUID, logger *logrus.Logger) *game.DealGame {
	var g *game.DealGame

	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("Room WebSocket closed normally for user %s.", userID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("Room WebSocket context canceled for user %s.", userID)
			} else {
				logger.Warnf("Error reading room WebSocket for user %s: %v (Status: %d)", userID, err, status)
			}
			return g
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from user %s. Ignoring.", msgType, userID)
			continue
		}

		var msg RoomMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from user %s: %v. Data: %s", userID, err, string(data))
			sendWsError(ctx, c, "Invalid JSON format.", "")
			continue
		}
		logger.Debugf("Received '%s' from user %s.", msg.Type, userID)

		switch msg.Type {
		case "CREATE_ROOM":
			if g != nil {
				sendWsError(ctx, c, "Already in a room.", "")
				continue
			}
			created, err := gs.CreateRoom()
			if err != nil {
				logger.Errorf("Failed to create room for user %s: %v", userID, err)
				sendWsError(ctx, c, "Failed to create room.", "")
				continue
			}
			if err := created.AddPlayer(playerDisplayName(msg.Name), userID); err != nil {
				sendWsError(ctx, c, err.Error(), "")
				continue
			}
			attachConn(created, userID, c)
			g = created
			sendWsMessage(ctx, c, map[string]interface{}{
				"type":     "ROOM_CREATED",
				"roomCode": g.RoomCode,
				"playerId": userID.String(),
			})
			broadcastState(g, logger)

		case "JOIN_ROOM":
			if g != nil {
				sendWsError(ctx, c, "Already in a room.", "")
				continue
			}
			code := strings.ToUpper(strings.TrimSpace(msg.RoomCode))
			room, ok := gs.Rooms.GetRoom(code)
			if !ok {
				sendWsError(ctx, c, fmt.Sprintf("Room %s not found.", code), "")
				continue
			}
			rejoined := reconnectPlayer(room, userID)
			if !rejoined {
				if err := room.AddPlayer(playerDisplayName(msg.Name), userID); err != nil {
					sendWsError(ctx, c, err.Error(), "")
					continue
				}
			}
			attachConn(room, userID, c)
			g = room
			sendWsMessage(ctx, c, map[string]interface{}{
				"type":     "ROOM_JOINED",
				"roomCode": g.RoomCode,
				"playerId": userID.String(),
			})
			if !rejoined {
				broadcastEvent(g, logger, map[string]interface{}{
					"type":     "PLAYER_JOINED",
					"playerId": userID.String(),
					"name":     playerName(g, userID),
				})
			}
			broadcastState(g, logger)

		case "START_GAME":
			if g == nil {
				sendWsError(ctx, c, "Join a room first.", "")
				continue
			}
			if err := g.Start(); err != nil {
				sendWsError(ctx, c, err.Error(), "")
				continue
			}
			// Persist the shuffled deck and dealt hands for replays.
			go database.UpsertInitialGameState(g.ID, g.Snapshot(uuid.Nil))
			broadcastEvent(g, logger, map[string]interface{}{"type": "GAME_STARTED"})
			broadcastState(g, logger)

		case "PLAY_CARD":
			if g == nil {
				sendWsError(ctx, c, "Join a room first.", "")
				continue
			}
			var cmd models.PlayCommand
			if msg.Play != nil {
				cmd = *msg.Play
			}
			if err := g.PlayCard(userID, msg.CardID, cmd); err != nil {
				sendWsError(ctx, c, err.Error(), errorCode(err))
				continue
			}
			broadcastState(g, logger)

		case "DISCARD_CARD":
			if g == nil {
				sendWsError(ctx, c, "Join a room first.", "")
				continue
			}
			if err := g.DiscardCard(userID, msg.CardID); err != nil {
				sendWsError(ctx, c, err.Error(), errorCode(err))
				continue
			}
			broadcastState(g, logger)

		case "END_TURN":
			if g == nil {
				sendWsError(ctx, c, "Join a room first.", "")
				continue
			}
			if err := g.EndTurn(userID); err != nil {
				sendWsError(ctx, c, err.Error(), errorCode(err))
				continue
			}
			broadcastState(g, logger)

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			logger.Warnf("Unknown message type '%s' from user %s.", msg.Type, userID)
			sendWsError(ctx, c, fmt.Sprintf("Unknown message type: %s", msg.Type), "")
		}

		select {
		case <-ctx.Done():
			return g
		default:
		}
	}
}

// attachConn binds the socket to the seated player and marks them connected.
func attachConn(g *game.DealGame, userID uuid.UUID, c *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == userID {
			p.Conn = c
			p.Connected = true
			return
		}
	}
}

// reconnectPlayer reports whether the user already holds a seat in the room.
// JOIN_ROOM on a started game is only legal as a reconnect.
func reconnectPlayer(g *game.DealGame, userID uuid.UUID) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func playerName(g *game.DealGame, userID uuid.UUID) string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == userID {
			return p.Name
		}
	}
	return ""
}

func playerDisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Guest"
	}
	return name
}

// broadcastState sends every connected player their own view of the table.
// Hands are redacted per viewer, so each player gets a distinct payload.
func broadcastState(g *game.DealGame, logger *logrus.Logger) {
	type recipient struct {
		id   uuid.UUID
		conn *websocket.Conn
	}
	var recipients []recipient
	g.Mu.Lock()
	for _, p := range g.Players {
		if p.Connected && p.Conn != nil {
			recipients = append(recipients, recipient{id: p.ID, conn: p.Conn})
		}
	}
	g.Mu.Unlock()

	for _, rcp := range recipients {
		snap := g.Snapshot(rcp.id)
		msgBytes, err := json.Marshal(map[string]interface{}{
			"type":  "STATE_UPDATE",
			"state": snap,
		})
		if err != nil {
			logger.Errorf("Failed to marshal state for player %s in game %s: %v", rcp.id, g.ID, err)
			continue
		}
		go func(conn *websocket.Conn, data []byte, playerID uuid.UUID) {
			writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
				logger.Warnf("Failed to write state to player %s in game %s: %v", playerID, g.ID, err)
			}
		}(rcp.conn, msgBytes, rcp.id)
	}
}

// broadcastEvent sends one identical payload to every connected player.
func broadcastEvent(g *game.DealGame, logger *logrus.Logger, ev interface{}) {
	var conns []*websocket.Conn
	g.Mu.Lock()
	for _, p := range g.Players {
		if p.Connected && p.Conn != nil {
			conns = append(conns, p.Conn)
		}
	}
	g.Mu.Unlock()

	msgBytes, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("Failed to marshal broadcast event for game %s: %v", g.ID, err)
		return
	}
	go func(conns []*websocket.Conn, data []byte) {
		for _, conn := range conns {
			writeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Failed to write broadcast message in game %s: %v", g.ID, err)
			}
		}
	}(conns, msgBytes)
}

// errorCode maps engine rejections that clients branch on to stable codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrDiscardRequired):
		return "DISCARD_REQUIRED"
	case errors.Is(err, game.ErrNotYourTurn):
		return "NOT_YOUR_TURN"
	case errors.Is(err, game.ErrNoMovesLeft):
		return "NO_MOVES_LEFT"
	case errors.Is(err, game.ErrCardNotInHand):
		return "CARD_NOT_IN_HAND"
	default:
		return ""
	}
}

// sendWsMessage marshals a message and writes it with a timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	if c == nil {
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("Error marshaling WebSocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Warnf("Error writing WebSocket message: %v (Status: %d)", err, status)
		}
	}
}

// sendWsError sends a structured error to one client. Code is optional and
// stable; message is human-readable.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg, code string) {
	payload := map[string]interface{}{
		"type":    "ERROR",
		"message": errorMsg,
	}
	if code != "" {
		payload["code"] = code
	}
	sendWsMessage(ctx, c, payload)
}
