// Package transporttest provides a recording Transport for tests.
package transporttest

import (
	"sync"

	"github.com/partywire/partywire/internal/model"
	"github.com/partywire/partywire/internal/transport"
)

// Delivery records one send made through the fake
type Delivery struct {
	// Conn is set for direct sends, Group for group sends
	Conn    model.ConnID
	Group   model.RoomCode
	Exclude model.ConnID
	All     bool
	Event   string
	Payload any
}

// Recorder is an in-memory Transport that records every call.
// Group membership is tracked so tests can assert against it.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	groups     map[model.RoomCode]map[model.ConnID]bool
}

var _ transport.Transport = (*Recorder)(nil)

// New creates a Recorder
func New() *Recorder {
	return &Recorder{
		groups: make(map[model.RoomCode]map[model.ConnID]bool),
	}
}

func (r *Recorder) SendTo(conn model.ConnID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Conn: conn, Event: event, Payload: payload})
}

func (r *Recorder) SendToGroup(group model.RoomCode, event string, payload any, exclude model.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Group: group, Exclude: exclude, Event: event, Payload: payload})
}

func (r *Recorder) SendToAll(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{All: true, Event: event, Payload: payload})
}

func (r *Recorder) JoinGroup(conn model.ConnID, group model.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groups[group] == nil {
		r.groups[group] = make(map[model.ConnID]bool)
	}
	r.groups[group][conn] = true
}

func (r *Recorder) LeaveGroup(conn model.ConnID, group model.RoomCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if members, ok := r.groups[group]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(r.groups, group)
		}
	}
}

// Deliveries returns a copy of everything sent so far
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Events returns just the event names sent so far, in order
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.deliveries))
	for i, d := range r.deliveries {
		out[i] = d.Event
	}
	return out
}

// InGroup reports whether the connection is currently in the group
func (r *Recorder) InGroup(conn model.ConnID, group model.RoomCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.groups[group][conn]
}

// GroupSize returns the current member count of a group
func (r *Recorder) GroupSize(group model.RoomCode) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups[group])
}

// Reset clears recorded deliveries, keeping group membership
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}
