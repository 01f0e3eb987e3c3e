// Package gateway dispatches decoded inbound events into the registry and
// hands the resulting outcomes to the broadcast router. It is the single
// place where registry errors are classified: the user-facing trio becomes
// a direct error reply, everything else is an expected race and stays
// silent.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/partywire/partywire/internal/broadcast"
	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/protocol"
	"github.com/partywire/partywire/internal/registry"
	"github.com/partywire/partywire/internal/transport/ws"
)

// Gateway routes inbound events to registry transitions
type Gateway struct {
	registry *registry.Registry
	router   *broadcast.Router
	logger   *slog.Logger
}

var _ ws.Handler = (*Gateway)(nil)

// New creates a Gateway
func New(reg *registry.Registry, router *broadcast.Router, logger *slog.Logger) *Gateway {
	return &Gateway{
		registry: reg,
		router:   router,
		logger:   logger.With(slog.String("component", "gateway")),
	}
}

// HandleMessage dispatches one inbound event. Unknown event names and
// payloads of the wrong shape are dropped without a reply.
func (g *Gateway) HandleMessage(conn model.ConnID, event string, data []byte) {
	ctx := context.Background()

	switch event {
	case model.EventCreateRoom:
		var req protocol.CreateRoomRequest
		if !g.decode(conn, event, data, &req) {
			return
		}
		result, err := g.registry.CreateRoom(ctx, conn, req.MaxPlayers, req.Settings, req.PlayerName)
		g.finish(conn, result, err)

	case model.EventJoinRoom:
		var req protocol.JoinRoomRequest
		if !g.decode(conn, event, data, &req) {
			return
		}
		result, err := g.registry.JoinRoom(ctx, conn, model.RoomCode(req.RoomCode), req.PlayerName)
		g.finish(conn, result, err)

	case model.EventStartGame:
		result, err := g.registry.StartGame(ctx, conn)
		g.finish(conn, result, err)

	case model.EventPlayerMovement:
		var req protocol.MoveRequest
		if !g.decode(conn, event, data, &req) {
			return
		}
		result, err := g.registry.ApplyMovement(ctx, conn, req.X, req.Y)
		g.finish(conn, result, err)

	default:
		g.logger.Debug("unknown event dropped",
			slog.String("conn", string(conn)),
			slog.String("event", event))
	}
}

// HandleDisconnect runs the disconnect transition for a departed
// connection. Unknown connections never joined anything; anything else
// failing here means the departure left stale state behind, which is
// worth a loud log line since there is no client left to tell.
func (g *Gateway) HandleDisconnect(conn model.ConnID) {
	result, err := g.registry.HandleDisconnect(context.Background(), conn)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			g.logger.Error("disconnect cleanup failed",
				slog.String("conn", string(conn)),
				slog.Any("error", err))
		}
		return
	}
	g.router.Dispatch(result)
}

// finish dispatches a transition's outcomes, or surfaces its failure.
// Errors without a user message are expected races (a client acting on
// state it hasn't seen change yet) and are dropped.
func (g *Gateway) finish(conn model.ConnID, result model.Result, err error) {
	if err != nil {
		if msg, userFacing := model.UserMessage(err); userFacing {
			g.router.SendError(conn, msg)
		} else {
			g.logger.Debug("transition no-op",
				slog.String("conn", string(conn)),
				slog.Any("error", err))
		}
		return
	}
	g.router.Dispatch(result)
}

// decode parses an event payload, dropping the event on any shape
// mismatch. An absent payload decodes as the zero request; events with
// required fields then fail their registry checks instead.
func (g *Gateway) decode(conn model.ConnID, event string, data []byte, into any) bool {
	if len(data) == 0 {
		return true
	}
	if err := json.Unmarshal(data, into); err != nil {
		g.logger.Debug("dropping malformed payload",
			slog.String("conn", string(conn)),
			slog.String("event", event),
			slog.Any("error", err))
		return false
	}
	return true
}
