package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partywire/partywire/internal/broadcast"
	"github.com/partywire/partywire/internal/dependencies/clock"
	"github.com/partywire/partywire/internal/dependencies/random"
	"github.com/partywire/partywire/internal/gateway"
	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/protocol"
	"github.com/partywire/partywire/internal/registry"
	"github.com/partywire/partywire/internal/storage/memory"
	"github.com/partywire/partywire/internal/testutil"
	"github.com/partywire/partywire/internal/transport/ws"
)

const readTimeout = 2 * time.Second

// newTestServer wires the full stack behind a real websocket endpoint
func newTestServer(t *testing.T) (*ws.Hub, *httptest.Server) {
	logger := testutil.NopLogger()
	hub := ws.NewHub(logger)
	reg := registry.New(memory.New(), clock.New(), random.New(), logger)
	router := broadcast.New(hub, logger)
	hub.SetHandler(gateway.New(reg, router, logger))

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	frame, err := protocol.Encode(event, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// readEvent reads the next envelope, failing if it isn't the expected event
func readEvent(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err, "waiting for %s", event)
	env, err := protocol.DecodeEnvelope(data)
	require.NoError(t, err)
	require.Equal(t, event, env.Event)
	return env.Data
}

func TestConnectionLifecycle(t *testing.T) {
	hub, srv := newTestServer(t)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		readTimeout, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		readTimeout, 10*time.Millisecond)
}

func TestRoomFlowOverWire(t *testing.T) {
	_, srv := newTestServer(t)

	// Host creates a room
	host := dial(t, srv)
	send(t, host, model.EventCreateRoom, protocol.CreateRoomRequest{PlayerName: "Alice"})

	var created model.RoomCreatedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, host, model.EventRoomCreated), &created))
	require.NotEmpty(t, created.RoomCode)
	hostID := created.Room.HostID

	// Second player joins; both sides see playerJoined, the joiner also
	// gets the roster
	joiner := dial(t, srv)
	send(t, joiner, model.EventJoinRoom, protocol.JoinRoomRequest{RoomCode: string(created.RoomCode), PlayerName: "Bob"})

	var joined model.PlayerJoinedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, host, model.EventPlayerJoined), &joined))
	assert.Equal(t, "Bob", joined.Player.Name)
	joinerID := joined.Player.ID

	require.NoError(t, json.Unmarshal(readEvent(t, joiner, model.EventPlayerJoined), &joined))
	var roster model.CurrentPlayersPayload
	require.NoError(t, json.Unmarshal(readEvent(t, joiner, model.EventCurrentPlayers), &roster))
	assert.Len(t, roster, 2)
	assert.Contains(t, roster, hostID)
	assert.Contains(t, roster, joinerID)

	// Host starts; both get gameStarted
	send(t, host, model.EventStartGame, nil)
	readEvent(t, host, model.EventGameStarted)
	readEvent(t, joiner, model.EventGameStarted)

	// Movement reaches the other player
	send(t, joiner, model.EventPlayerMovement, protocol.MoveRequest{X: 10, Y: 20})

	var moved model.PlayerMovedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, host, model.EventPlayerMoved), &moved))
	assert.Equal(t, joinerID, moved.ID)
	assert.Equal(t, float64(10), moved.X)
	assert.Equal(t, float64(20), moved.Y)

	// Host drops; the remaining player is promoted before the departure
	// notice lands
	require.NoError(t, host.Close())

	var newHost model.NewHostPayload
	require.NoError(t, json.Unmarshal(readEvent(t, joiner, model.EventNewHost), &newHost))
	assert.Equal(t, joinerID, newHost.HostID)

	var gone model.PlayerDisconnectedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, joiner, model.EventPlayerDisconnected), &gone))
	assert.Equal(t, hostID, gone.ID)
}

func TestMovementDoesNotEchoToSender(t *testing.T) {
	_, srv := newTestServer(t)

	host := dial(t, srv)
	send(t, host, model.EventCreateRoom, protocol.CreateRoomRequest{})
	var created model.RoomCreatedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, host, model.EventRoomCreated), &created))
	hostID := created.Room.HostID

	joiner := dial(t, srv)
	send(t, joiner, model.EventJoinRoom, protocol.JoinRoomRequest{RoomCode: string(created.RoomCode)})
	readEvent(t, host, model.EventPlayerJoined)
	readEvent(t, joiner, model.EventPlayerJoined)
	readEvent(t, joiner, model.EventCurrentPlayers)

	// The joiner moves, then the host moves. Per-connection delivery is
	// in order, so if the joiner's own movement had echoed back it would
	// arrive before the host's; the next frame being the host's proves
	// the echo was never sent.
	send(t, joiner, model.EventPlayerMovement, protocol.MoveRequest{X: 1, Y: 2})
	send(t, host, model.EventPlayerMovement, protocol.MoveRequest{X: 3, Y: 4})

	var moved model.PlayerMovedPayload
	require.NoError(t, json.Unmarshal(readEvent(t, joiner, model.EventPlayerMoved), &moved))
	assert.Equal(t, hostID, moved.ID)
	assert.Equal(t, float64(3), moved.X)
}

func TestErrorReplyForUnknownRoom(t *testing.T) {
	_, srv := newTestServer(t)

	conn := dial(t, srv)
	send(t, conn, model.EventJoinRoom, protocol.JoinRoomRequest{RoomCode: "NOSUCH"})

	var errPayload model.ErrorPayload
	require.NoError(t, json.Unmarshal(readEvent(t, conn, model.EventError), &errPayload))
	assert.Equal(t, "Room not found", errPayload.Message)
}

func TestMalformedFrameDoesNotKillConnection(t *testing.T) {
	_, srv := newTestServer(t)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives and keeps serving traffic
	send(t, conn, model.EventCreateRoom, protocol.CreateRoomRequest{})
	readEvent(t, conn, model.EventRoomCreated)
}
