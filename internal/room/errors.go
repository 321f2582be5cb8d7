package room

import "errors"

// Validation errors reported back to the originating connection. None of them
// mutate room state.
var (
	ErrRoomFull           = errors.New("Room is full")
	ErrGameAlreadyStarted = errors.New("Game already started")
	ErrNotEnoughPlayers   = errors.New("Need at least 2 players")
	ErrNotAuthorized      = errors.New("Not authorized")
	ErrNotInRoom          = errors.New("Not a player in this room")
	ErrAlreadyVoted       = errors.New("Already voted this round")
	ErrAlreadySubmitted   = errors.New("Already submitted this round")
	ErrInvalidCategory    = errors.New("Invalid category choice")
	ErrWrongPhase         = errors.New("Invalid action for current phase")
)
