package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/protocol"
)

// Session is an interactive client connection. It sends one opening event
// (createRoom or joinRoom), then mirrors server events to stdout while
// accepting commands from stdin until EOF or interrupt.
type Session struct {
	cfg  *Config
	conn *websocket.Conn
}

// Dial connects to the coordinator
func Dial(cfg *Config) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.Dial(cfg.ServerURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.ServerURL, err)
	}
	return &Session{cfg: cfg, conn: conn}, nil
}

// Send writes one event to the server
func (s *Session) Send(event string, payload any) error {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// Run mirrors server events and reads stdin commands until the connection
// drops or the user quits
func (s *Session) Run() error {
	defer s.conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := s.conn.ReadMessage()
			if err != nil {
				return
			}
			s.printEvent(data)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			return nil
		case <-interrupt:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := s.handleCommand(line); quit {
				return nil
			}
		}
	}
}

// handleCommand executes one stdin command: start, move <x> <y>, quit
func (s *Session) handleCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "start":
		if err := s.Send(model.EventStartGame, nil); err != nil {
			fmt.Fprintln(os.Stderr, "send failed:", err)
		}
	case "move":
		if len(fields) != 3 {
			fmt.Fprintln(os.Stderr, "usage: move <x> <y>")
			return false
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			fmt.Fprintln(os.Stderr, "usage: move <x> <y>")
			return false
		}
		if err := s.Send(model.EventPlayerMovement, protocol.MoveRequest{X: x, Y: y}); err != nil {
			fmt.Fprintln(os.Stderr, "send failed:", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "commands: start | move <x> <y> | quit")
	}
	return false
}

// printEvent renders one server event for the terminal
func (s *Session) printEvent(data []byte) {
	if s.cfg.JSON {
		fmt.Println(string(data))
		return
	}

	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		fmt.Println(string(data))
		return
	}

	switch env.Event {
	case model.EventRoomCreated:
		var p model.RoomCreatedPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("room created: %s (max %d players)\n", p.RoomCode, p.Room.MaxPlayers)
			return
		}
	case model.EventPlayerJoined:
		var p model.PlayerJoinedPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("%s joined %s (%d/%d)\n", p.Player.Name, p.Room.Code, len(p.Room.Members), p.Room.MaxPlayers)
			return
		}
	case model.EventGameStarted:
		fmt.Println("game started")
		return
	case model.EventPlayerMoved:
		var p model.PlayerMovedPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("%s moved to (%.0f, %.0f)\n", p.ID, p.X, p.Y)
			return
		}
	case model.EventNewHost:
		var p model.NewHostPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("new host: %s\n", p.HostID)
			return
		}
	case model.EventPlayerDisconnected:
		var p model.PlayerDisconnectedPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("%s disconnected\n", p.ID)
			return
		}
	case model.EventError:
		var p model.ErrorPayload
		if json.Unmarshal(env.Data, &p) == nil {
			fmt.Printf("error: %s\n", p.Message)
			return
		}
	}

	fmt.Printf("%s: %s\n", env.Event, string(env.Data))
}
