// Package registry owns the room/session state machine: room creation,
// capacity and phase enforcement on join, host reassignment on host
// departure, and the ordering of the resulting broadcasts.
//
// Every transition executes as an indivisible step under the registry
// mutex and returns a model.Result describing what should be delivered;
// the registry itself never calls the transport, which is what keeps the
// state machine independently testable.
package registry

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/partywire/partywire/internal/dependencies/clock"
	"github.com/partywire/partywire/internal/dependencies/random"
	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// maxCodeAttempts bounds the collision-retry loop. At 36^6 codes a
	// collision is negligible, but generation must never spin forever
	// when tests shrink the codespace.
	maxCodeAttempts = 100

	// colorAlphabet is the hex digits used for generated player colors
	colorAlphabet = "0123456789ABCDEF"
	// spawnExtent bounds the random initial position on each axis
	spawnExtent = 400
)

// Registry tracks connected players and the rooms grouping them
type Registry struct {
	mu      sync.Mutex
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a Registry
func New(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// CreateRoom creates a room hosted by the caller and places them in it.
// A non-positive maxPlayers falls back to the default capacity. Outcome
// order: a roomCreated reply to the caller only; the room has one member,
// so there is nothing to broadcast.
func (r *Registry) CreateRoom(ctx context.Context, conn model.ConnID, maxPlayers int, settings map[string]any, playerName string) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.generateRoomCode(ctx)
	if err != nil {
		return model.Result{}, err
	}

	if maxPlayers <= 0 {
		maxPlayers = model.DefaultMaxPlayers
	}

	var result model.Result
	if err := r.detachFromCurrentRoom(ctx, conn, code, &result); err != nil {
		return model.Result{}, err
	}

	now := r.clock.Now()
	room := &model.Room{
		Code:       code,
		HostID:     conn,
		Members:    []model.ConnID{conn},
		Phase:      model.PhaseWaiting,
		MaxPlayers: maxPlayers,
		Settings:   settings,
		CreatedAt:  now,
	}
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return model.Result{}, err
	}

	player, err := r.newPlayer(ctx, conn, playerName, code)
	if err != nil {
		return model.Result{}, err
	}
	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return model.Result{}, err
	}

	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("host", string(conn)),
		slog.Int("max_players", maxPlayers))

	result.Join(conn, code)
	result.Send(model.Outcome{
		Audience: model.AudienceSender,
		Sender:   conn,
		Event:    model.EventRoomCreated,
		Payload:  model.RoomCreatedPayload{RoomCode: code, Room: snapshot(room)},
	})
	return result, nil
}

// JoinRoom adds the caller to an existing room. The code is upper-cased
// before lookup so clients can type codes case-insensitively. Fails with
// ErrRoomNotFound, ErrRoomFull or ErrRoomNotJoinable without mutating any
// state. Outcome order: playerJoined to the whole room (joiner included),
// then the currentPlayers roster to the joiner reflecting state after their
// own insertion.
func (r *Registry) JoinRoom(ctx context.Context, conn model.ConnID, code model.RoomCode, playerName string) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code = model.RoomCode(strings.ToUpper(string(code)))

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return model.Result{}, err
	}
	if room.IsFull() {
		return model.Result{}, model.ErrRoomFull
	}
	if !room.Joinable() {
		return model.Result{}, model.ErrRoomNotJoinable
	}

	// A connection re-joining from another room is detached from it first,
	// with the usual host-migration semantics; otherwise the old room would
	// keep a stale member and still fan events out to this connection
	var result model.Result
	if err := r.detachFromCurrentRoom(ctx, conn, code, &result); err != nil {
		return model.Result{}, err
	}

	// Join order is arrival order; the member list is the tie-break source
	// for host reassignment later
	if !room.HasMember(conn) {
		room.Members = append(room.Members, conn)
	}
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return model.Result{}, err
	}

	player, err := r.newPlayer(ctx, conn, playerName, code)
	if err != nil {
		return model.Result{}, err
	}
	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return model.Result{}, err
	}

	roster := make(model.CurrentPlayersPayload, len(room.Members))
	for _, id := range room.Members {
		p, err := r.storage.GetPlayer(ctx, id)
		if err != nil {
			continue
		}
		roster[id] = *p
	}

	r.logger.Info("player joined",
		slog.String("room", string(code)),
		slog.String("player", string(conn)),
		slog.Int("members", len(room.Members)))

	result.Join(conn, code)
	result.Send(model.Outcome{
		Audience: model.AudienceRoom,
		Room:     code,
		Sender:   conn,
		Event:    model.EventPlayerJoined,
		Payload:  model.PlayerJoinedPayload{Player: *player, Room: snapshot(room)},
	})
	result.Send(model.Outcome{
		Audience: model.AudienceSender,
		Sender:   conn,
		Event:    model.EventCurrentPlayers,
		Payload:  roster,
	})
	return result, nil
}

// StartGame moves the caller's room from waiting to playing. Returns
// ErrPlayerNotFound or ErrNotHost when the caller has no room or isn't
// its host; callers treat both as silent no-ops. The phase transition is
// monotonic: a room never returns to waiting. Outcome: gameStarted to the
// whole room including the host.
func (r *Registry) StartGame(ctx context.Context, conn model.ConnID) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.storage.GetPlayer(ctx, conn)
	if err != nil {
		return model.Result{}, err
	}
	if player.RoomCode == "" {
		return model.Result{}, model.ErrRoomNotFound
	}

	room, err := r.storage.GetRoom(ctx, player.RoomCode)
	if err != nil {
		return model.Result{}, err
	}
	if room.HostID != conn {
		return model.Result{}, model.ErrNotHost
	}

	room.Phase = model.PhasePlaying
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return model.Result{}, err
	}

	r.logger.Info("game started",
		slog.String("room", string(room.Code)),
		slog.String("host", string(conn)))

	var result model.Result
	result.Send(model.Outcome{
		Audience: model.AudienceRoom,
		Room:     room.Code,
		Sender:   conn,
		Event:    model.EventGameStarted,
		Payload:  model.GameStartedPayload{Room: snapshot(room)},
	})
	return result, nil
}

// ApplyMovement overwrites the caller's position. Unknown players are a
// silent no-op (ErrPlayerNotFound): the client is racing its own
// disconnect. Outcome: playerMoved to the rest of the room, sender
// excluded — the sender already has its authoritative local position.
func (r *Registry) ApplyMovement(ctx context.Context, conn model.ConnID, x, y float64) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.storage.GetPlayer(ctx, conn)
	if err != nil {
		return model.Result{}, err
	}

	player.Position = model.Position{X: x, Y: y}
	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return model.Result{}, err
	}

	var result model.Result
	if player.RoomCode != "" {
		result.Send(model.Outcome{
			Audience: model.AudienceRoomOthers,
			Room:     player.RoomCode,
			Sender:   conn,
			Event:    model.EventPlayerMoved,
			Payload:  model.PlayerMovedPayload{ID: conn, X: x, Y: y},
		})
	}
	return result, nil
}

// HandleDisconnect removes a departed connection's player and room
// membership. An emptied room is destroyed: no empty room outlives its
// last member, and there is nobody left to notify. Otherwise the outcome
// order is newHost (if the host departed; reassigned to the earliest
// remaining joiner) before playerDisconnected, so clients update host UI
// before removing the row.
func (r *Registry) HandleDisconnect(ctx context.Context, conn model.ConnID) (model.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.storage.GetPlayer(ctx, conn)
	if err != nil {
		return model.Result{}, err
	}
	if err := r.storage.DeletePlayer(ctx, conn); err != nil {
		return model.Result{}, err
	}

	if player.RoomCode == "" {
		return model.Result{}, nil
	}

	var result model.Result
	if err := r.removeMembership(ctx, conn, player.RoomCode, &result); err != nil {
		return model.Result{}, err
	}
	return result, nil
}

// detachFromCurrentRoom removes an existing player record's membership in
// whatever room it references, unless that room is the one being joined.
// Connections without a record, or without a room, are left alone.
func (r *Registry) detachFromCurrentRoom(ctx context.Context, conn model.ConnID, joining model.RoomCode, result *model.Result) error {
	player, err := r.storage.GetPlayer(ctx, conn)
	if err != nil {
		return nil
	}
	if player.RoomCode == "" || player.RoomCode == joining {
		return nil
	}
	return r.removeMembership(ctx, conn, player.RoomCode, result)
}

// removeMembership takes a connection out of a room's member list and
// appends the consequences to result: the group leave, room destruction
// when the last member departs, and otherwise host reassignment (newHost
// before playerDisconnected, so clients update host UI before removing
// the row).
func (r *Registry) removeMembership(ctx context.Context, conn model.ConnID, code model.RoomCode, result *model.Result) error {
	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		// Room already gone; nothing further to do
		return nil
	}

	room.RemoveMember(conn)
	result.LeaveRoom(conn, room.Code)

	if len(room.Members) == 0 {
		if err := r.storage.DeleteRoom(ctx, room.Code); err != nil {
			return err
		}
		r.logger.Info("room destroyed",
			slog.String("room", string(room.Code)))
		return nil
	}

	if room.HostID == conn {
		room.HostID = room.Members[0]
		result.Send(model.Outcome{
			Audience: model.AudienceRoom,
			Room:     room.Code,
			Sender:   conn,
			Event:    model.EventNewHost,
			Payload:  model.NewHostPayload{HostID: room.HostID},
		})
		r.logger.Info("host reassigned",
			slog.String("room", string(room.Code)),
			slog.String("host", string(room.HostID)))
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	result.Send(model.Outcome{
		Audience: model.AudienceRoom,
		Room:     room.Code,
		Sender:   conn,
		Event:    model.EventPlayerDisconnected,
		Payload:  model.PlayerDisconnectedPayload{ID: conn},
	})
	return nil
}

// Stats returns the current player and room counts
func (r *Registry) Stats(ctx context.Context) (players, rooms int, err error) {
	players, err = r.storage.PlayerCount(ctx)
	if err != nil {
		return 0, 0, err
	}
	rooms, err = r.storage.RoomCount(ctx)
	if err != nil {
		return 0, 0, err
	}
	return players, rooms, nil
}

// generateRoomCode draws fresh codes until one misses the live-room set.
// Check-then-insert is atomic with respect to other creates because every
// transition holds the registry mutex.
func (r *Registry) generateRoomCode(ctx context.Context) (model.RoomCode, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := model.RoomCode(r.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := r.storage.RoomExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", model.ErrCodespaceExhausted
}

// newPlayer builds the player record for a create/join transition,
// overwriting any previous record for the connection. Display names
// default to Player<N> where N counts the players known before this one.
func (r *Registry) newPlayer(ctx context.Context, conn model.ConnID, name string, room model.RoomCode) (*model.Player, error) {
	if name == "" {
		count, err := r.storage.PlayerCount(ctx)
		if err != nil {
			return nil, err
		}
		name = "Player" + strconv.Itoa(count+1)
	}
	return &model.Player{
		ID:   conn,
		Name: name,
		Position: model.Position{
			X: float64(r.random.Intn(spawnExtent)),
			Y: float64(r.random.Intn(spawnExtent)),
		},
		Color:     "#" + r.random.String(6, colorAlphabet),
		RoomCode:  room,
		CreatedAt: r.clock.Now(),
	}, nil
}

// snapshot returns a room copy safe to hand to the router: deliveries
// happen after the registry mutex is released, so payloads must not alias
// the live member slice.
func snapshot(room *model.Room) model.Room {
	cp := *room
	cp.Members = make([]model.ConnID, len(room.Members))
	copy(cp.Members, room.Members)
	return cp
}
