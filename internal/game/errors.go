// internal/game/errors.go
package game

import "errors"

// Validation rejections. Every rejected command leaves the game state
// untouched and consumes no move; the error tells the caller why. This
// generalizes the reference behavior where only the end-turn hand-limit case
// surfaced a structured error.
var (
	ErrGameNotStarted  = errors.New("game has not started")
	ErrGameOver        = errors.New("game has ended")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoMovesLeft     = errors.New("no moves left this turn")
	ErrCardNotInHand   = errors.New("card is not in your hand")
	ErrIllegalMode     = errors.New("card cannot be played in that mode")
	ErrMissingTarget   = errors.New("required target data is missing")
	ErrUnknownPlayer   = errors.New("target player not found")
	ErrSetProtected    = errors.New("completed sets are protected")
	ErrSetNotComplete  = errors.New("set is not complete")
	ErrDiscardRequired = errors.New("DISCARD_REQUIRED")
	ErrDeckExhausted   = errors.New("deck and discard pile are both empty")
	ErrUnimplemented   = errors.New("card effect is not implemented")
	ErrLobbyOnly       = errors.New("players can only join in the lobby")
)
