// internal/handlers/room_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harideal/harideal/internal/game"
)

// TestRoomList checks that /room/list reports rooms created in memory.
func TestRoomList(t *testing.T) {
	gs := NewGameServer()
	g, err := gs.CreateRoom()
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	req := httptest.NewRequest("GET", "/room/list", nil)
	w := httptest.NewRecorder()
	gs.RoomListHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Rooms []string `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode room list: %v", err)
	}
	found := false
	for _, code := range resp.Rooms {
		if code == g.RoomCode {
			found = true
		}
	}
	if !found {
		t.Fatalf("room %s missing from list %v", g.RoomCode, resp.Rooms)
	}
}

// TestCreateRoomWiresEndHook verifies new rooms get the persistence callback.
func TestCreateRoomWiresEndHook(t *testing.T) {
	gs := NewGameServer()
	g, err := gs.CreateRoom()
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	if g.OnGameEnd == nil {
		t.Fatal("expected OnGameEnd to be set on a new room")
	}
}

// TestErrorCode maps the engine rejections clients branch on.
func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{game.ErrDiscardRequired, "DISCARD_REQUIRED"},
		{game.ErrNotYourTurn, "NOT_YOUR_TURN"},
		{game.ErrNoMovesLeft, "NO_MOVES_LEFT"},
		{game.ErrCardNotInHand, "CARD_NOT_IN_HAND"},
		{errors.New("anything else"), ""},
	}
	for _, tc := range cases {
		if got := errorCode(tc.err); got != tc.code {
			t.Errorf("errorCode(%v) = %q, want %q", tc.err, got, tc.code)
		}
	}
}
