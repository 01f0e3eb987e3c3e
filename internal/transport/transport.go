// Package transport defines the delivery abstraction the coordinator
// depends on. Implementations own connection lifecycle, message framing
// and group addressing; the coordinator only ever asks them to deliver.
package transport

import "github.com/partywire/partywire/internal/model"

// Transport delivers events to connections. A "group" is a named set of
// connections addressed together; the coordinator uses one group per room.
// Implementations must guarantee per-connection in-order delivery and must
// resolve group sends against membership at call time.
type Transport interface {
	// SendTo delivers an event to a single connection
	SendTo(conn model.ConnID, event string, payload any)

	// SendToGroup delivers an event to every current member of a group.
	// exclude, if non-empty, names one connection to skip.
	SendToGroup(group model.RoomCode, event string, payload any, exclude model.ConnID)

	// SendToAll delivers an event to every connected client
	SendToAll(event string, payload any)

	// JoinGroup adds a connection to a group
	JoinGroup(conn model.ConnID, group model.RoomCode)

	// LeaveGroup removes a connection from a group
	LeaveGroup(conn model.ConnID, group model.RoomCode)
}
