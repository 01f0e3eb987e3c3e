package model

import "time"

// RoomCode is a human-readable identifier for joining rooms
type RoomCode string

// Phase represents a room's lifecycle phase. Transitions are monotonic:
// waiting -> playing, never back.
type Phase string

const (
	PhaseWaiting Phase = "waiting" // Accepting joins, game not started
	PhasePlaying Phase = "playing" // Game in progress, joins rejected
)

// DefaultMaxPlayers is used when room creation doesn't specify a capacity
const DefaultMaxPlayers = 4

// Room groups players into a shared session. The member list is ordered by
// join time; the host must always be one of the members while the room exists.
type Room struct {
	Code       RoomCode       `json:"code"`
	HostID     ConnID         `json:"hostId"`
	Members    []ConnID       `json:"members"`
	Phase      Phase          `json:"phase"`
	MaxPlayers int            `json:"maxPlayers"`
	Settings   map[string]any `json:"settings,omitempty"`
	CreatedAt  time.Time      `json:"-"`
}

// HasMember reports whether the given connection is in the member list
func (r *Room) HasMember(id ConnID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// RemoveMember removes the given connection from the member list, preserving
// the join order of the remaining members. Returns false if it wasn't present.
func (r *Room) RemoveMember(id ConnID) bool {
	for i, m := range r.Members {
		if m == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// IsFull reports whether the room is at capacity
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxPlayers
}

// Joinable reports whether the room is accepting new members
func (r *Room) Joinable() bool {
	return r.Phase == PhaseWaiting
}
