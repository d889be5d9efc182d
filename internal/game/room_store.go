// internal/game/room_store.go
package game

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// roomCodeAlphabet avoids ambiguous characters in codes players type by hand.
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const roomCodeLength = 4

// RoomStore owns every live game, keyed by room code. Each room has exactly
// one DealGame; rooms are fully isolated from each other.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*DealGame
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*DealGame),
	}
}

// CreateRoom allocates a fresh room code and its game instance.
func (s *RoomStore) CreateRoom() (*DealGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < 100; attempt++ {
		code, err := newRoomCode()
		if err != nil {
			return nil, err
		}
		if _, taken := s.rooms[code]; taken {
			continue
		}
		g := NewDealGame(code)
		s.rooms[code] = g
		return g, nil
	}
	return nil, fmt.Errorf("could not allocate a unique room code")
}

// GetRoom returns the game for a room code.
func (s *RoomStore) GetRoom(code string) (*DealGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.rooms[code]
	return g, ok
}

// GetRoomByGameID finds a room by its game's uuid, or nil.
func (s *RoomStore) GetRoomByGameID(id uuid.UUID) *DealGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.rooms {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// DeleteRoom drops a room from the registry.
func (s *RoomStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// RoomCodes lists the active room codes.
func (s *RoomStore) RoomCodes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes
}

func newRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate room code: %w", err)
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf), nil
}
