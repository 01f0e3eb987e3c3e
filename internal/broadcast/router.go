// Package broadcast maps registry outcomes onto transport deliveries.
package broadcast

import (
	"log/slog"

	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/transport"
)

// Router is the delivery layer between the registry and the transport.
// It applies a result's group-membership changes first, then dispatches
// its events in order. Room-scoped audiences resolve against transport
// group membership at dispatch time, so an event addressed to a destroyed
// room reaches nobody. The router is synchronous and carries no retry
// logic; delivery failure is the transport's concern.
type Router struct {
	transport transport.Transport
	logger    *slog.Logger
}

// New creates a Router
func New(t transport.Transport, logger *slog.Logger) *Router {
	return &Router{
		transport: t,
		logger:    logger.With(slog.String("component", "broadcast")),
	}
}

// Dispatch delivers everything a transition produced
func (r *Router) Dispatch(result model.Result) {
	for _, sub := range result.Subscriptions {
		if sub.Leave {
			r.transport.LeaveGroup(sub.Conn, sub.Room)
		} else {
			r.transport.JoinGroup(sub.Conn, sub.Room)
		}
	}

	for _, o := range result.Events {
		r.deliver(o)
	}
}

// SendError delivers a direct error reply to a single connection
func (r *Router) SendError(conn model.ConnID, message string) {
	r.transport.SendTo(conn, model.EventError, model.ErrorPayload{Message: message})
}

func (r *Router) deliver(o model.Outcome) {
	switch o.Audience {
	case model.AudienceSender:
		r.transport.SendTo(o.Sender, o.Event, o.Payload)
	case model.AudienceRoom:
		r.transport.SendToGroup(o.Room, o.Event, o.Payload, "")
	case model.AudienceRoomOthers:
		r.transport.SendToGroup(o.Room, o.Event, o.Payload, o.Sender)
	case model.AudienceEveryone:
		r.transport.SendToAll(o.Event, o.Payload)
	default:
		r.logger.Warn("unknown audience dropped",
			slog.String("audience", string(o.Audience)),
			slog.String("event", o.Event))
	}
}
