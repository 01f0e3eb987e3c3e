// Package protocol defines the JSON wire format spoken over a connection.
//
// Every message in either direction is an Envelope: an event name plus an
// event-specific data object. Inbound payloads have explicit request
// structs so required/optional fields and defaulting rules live in one
// place instead of being inferred per call site. A payload that fails to
// decode is dropped before it reaches the registry.
package protocol

import (
	"encoding/json"
	"errors"
)

// Envelope frames every message on the wire
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ErrMissingEvent is returned for envelopes without an event name
var ErrMissingEvent = errors.New("envelope missing event name")

// CreateRoomRequest is the payload for createRoom.
// All fields are optional; maxPlayers defaults server-side.
type CreateRoomRequest struct {
	MaxPlayers int            `json:"maxPlayers,omitempty"`
	Settings   map[string]any `json:"settings,omitempty"`
	PlayerName string         `json:"playerName,omitempty"`
}

// JoinRoomRequest is the payload for joinRoom
type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName,omitempty"`
}

// MoveRequest is the payload for playerMovement
type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeEnvelope parses one wire message
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	if env.Event == "" {
		return Envelope{}, ErrMissingEvent
	}
	return env, nil
}

// Encode frames an outbound event for the wire
func Encode(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
