package model

import "errors"

// Common errors used across the application
var (
	// Room errors surfaced to the requesting connection
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotJoinable = errors.New("game already in progress")

	// Silent errors: these represent a client racing a state change it
	// hasn't learned about yet and are never surfaced as error replies
	ErrNotHost        = errors.New("player is not the host")
	ErrPlayerNotFound = errors.New("player not found")

	// ErrCodespaceExhausted means room code generation gave up after the
	// bounded retry limit. Unreachable at the full 36^6 codespace but
	// reachable in tests using a tiny alphabet.
	ErrCodespaceExhausted = errors.New("room code namespace exhausted")
)

// UserMessage returns the human-readable message for errors that are
// surfaced to the requesting connection as an error event, and ok=false
// for errors that are silently ignored.
func UserMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found", true
	case errors.Is(err, ErrRoomFull):
		return "Room is full", true
	case errors.Is(err, ErrRoomNotJoinable):
		return "Game already in progress", true
	default:
		return "", false
	}
}
