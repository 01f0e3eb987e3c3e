package model

// Inbound event names
const (
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventStartGame      = "startGame"
	EventPlayerMovement = "playerMovement"
)

// Outbound event names
const (
	EventRoomCreated        = "roomCreated"
	EventPlayerJoined       = "playerJoined"
	EventCurrentPlayers     = "currentPlayers"
	EventGameStarted        = "gameStarted"
	EventPlayerMoved        = "playerMoved"
	EventNewHost            = "newHost"
	EventPlayerDisconnected = "playerDisconnected"
	EventError              = "error"
)

// RoomCreatedPayload is the direct reply to a successful createRoom
type RoomCreatedPayload struct {
	RoomCode RoomCode `json:"roomCode"`
	Room     Room     `json:"room"`
}

// PlayerJoinedPayload announces a new member to the room
type PlayerJoinedPayload struct {
	Player Player `json:"player"`
	Room   Room   `json:"room"`
}

// CurrentPlayersPayload is the roster sent to a joining player, keyed by
// connection ID and reflecting state after the joiner's own insertion
type CurrentPlayersPayload map[ConnID]Player

// GameStartedPayload announces the waiting -> playing transition
type GameStartedPayload struct {
	Room Room `json:"room"`
}

// PlayerMovedPayload fans a position update out to the rest of the room
type PlayerMovedPayload struct {
	ID ConnID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// NewHostPayload announces host reassignment after the host departs
type NewHostPayload struct {
	HostID ConnID `json:"hostId"`
}

// PlayerDisconnectedPayload tells remaining members to drop a player
type PlayerDisconnectedPayload struct {
	ID ConnID `json:"id"`
}

// ErrorPayload is a direct reply carrying a human-readable failure message
type ErrorPayload struct {
	Message string `json:"message"`
}
