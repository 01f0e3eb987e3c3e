// Package ws is the websocket transport: it owns connection lifecycle,
// message framing and room-group addressing, and hands decoded inbound
// events to a Handler. It knows nothing about rooms beyond group names.
package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/protocol"
	"github.com/partywire/partywire/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: tighten this before exposing the server publicly
		return true
	},
}

// Handler receives inbound traffic from the hub
type Handler interface {
	// HandleMessage is called with each decoded envelope. data is the raw
	// event payload, possibly nil.
	HandleMessage(conn model.ConnID, event string, data []byte)

	// HandleDisconnect is called once when a connection goes away
	HandleDisconnect(conn model.ConnID)
}

// Hub maintains the set of active connections and their group memberships,
// and implements transport.Transport on top of them. Group sends resolve
// membership under the hub lock at call time, so a group that has been
// emptied or removed fans out to nobody.
type Hub struct {
	logger  *slog.Logger
	handler Handler

	mu      sync.RWMutex
	clients map[model.ConnID]*client
	groups  map[model.RoomCode]map[model.ConnID]*client
}

var _ transport.Transport = (*Hub)(nil)

// NewHub creates a Hub. SetHandler must be called before serving traffic.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With(slog.String("component", "ws")),
		clients: make(map[model.ConnID]*client),
		groups:  make(map[model.RoomCode]map[model.ConnID]*client),
	}
}

// SetHandler wires the inbound side. Separate from NewHub because the
// handler (gateway) needs the hub as its transport.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades an HTTP request and runs the connection until it drops.
// Each connection gets a fresh opaque ID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		id:   model.ConnID(uuid.NewString()),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("conn", string(c.id)),
		slog.Int("total_clients", total))

	go c.writePump()
	go c.readPump()
}

// handleInbound decodes one wire message and forwards it to the handler.
// Malformed envelopes are dropped here; they never reach the registry.
func (h *Hub) handleInbound(conn model.ConnID, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		h.logger.Debug("dropping malformed message",
			slog.String("conn", string(conn)),
			slog.Any("error", err))
		return
	}
	h.handler.HandleMessage(conn, env.Event, env.Data)
}

// unregister tears down a departed connection: removes it from every group
// and from the client set, then notifies the handler exactly once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	for group, members := range h.groups {
		if _, ok := members[c.id]; ok {
			delete(members, c.id)
			if len(members) == 0 {
				delete(h.groups, group)
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("conn", string(c.id)),
		slog.Int("total_clients", total))

	h.handler.HandleDisconnect(c.id)
}

// enqueue queues a frame for one client, dropping the client if its
// buffer is full so a slow reader can't stall everyone else. Callers must
// hold h.mu: unregister closes c.send under the write lock, so a send
// outside the lock could race the close.
func (h *Hub) enqueue(c *client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.logger.Warn("send buffer full, dropping client",
			slog.String("conn", string(c.id)))
		go c.conn.Close()
	}
}

// encode frames an event, logging instead of failing on marshal errors
// (payloads are plain structs; an error here is a programming bug)
func (h *Hub) encode(event string, payload any) ([]byte, bool) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.Any("error", err))
		return nil, false
	}
	return frame, true
}

// Transport implementation

func (h *Hub) SendTo(conn model.ConnID, event string, payload any) {
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, found := h.clients[conn]; found {
		h.enqueue(c, frame)
	}
}

func (h *Hub) SendToGroup(group model.RoomCode, event string, payload any, exclude model.ConnID) {
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.groups[group] {
		if id == exclude {
			continue
		}
		h.enqueue(c, frame)
	}
}

func (h *Hub) SendToAll(event string, payload any) {
	frame, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.enqueue(c, frame)
	}
}

func (h *Hub) JoinGroup(conn model.ConnID, group model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	if h.groups[group] == nil {
		h.groups[group] = make(map[model.ConnID]*client)
	}
	h.groups[group][conn] = c
}

func (h *Hub) LeaveGroup(conn model.ConnID, group model.RoomCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.groups[group]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
