package model

import "time"

// ConnID is the opaque per-connection identifier assigned by the transport.
// It doubles as the player ID: one connection is one player.
type ConnID string

// Position is a player's location in the game world
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player represents a connected participant
type Player struct {
	ID       ConnID   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Color    string   `json:"color"`
	// RoomCode is a weak back-reference to the player's current room,
	// empty while unassigned. The room owns the membership list.
	RoomCode  RoomCode  `json:"roomCode,omitempty"`
	CreatedAt time.Time `json:"-"`
}
