package model

// Audience selects the recipients of an outbound event
type Audience string

const (
	// AudienceSender delivers to the originating connection only
	AudienceSender Audience = "sender"
	// AudienceRoom delivers to every member of the room, sender included
	AudienceRoom Audience = "room"
	// AudienceRoomOthers delivers to the room excluding the sender
	AudienceRoomOthers Audience = "room-others"
	// AudienceEveryone delivers to all connected clients
	AudienceEveryone Audience = "everyone"
)

// Outcome is one outbound event produced by a registry transition.
// Outcomes within a Result are delivered in order; the registry documents
// that order as a postcondition of each transition.
type Outcome struct {
	Audience Audience
	// Room scopes room audiences; ignored for sender/everyone
	Room RoomCode
	// Sender is the originating connection: the recipient for
	// AudienceSender, the exclusion for AudienceRoomOthers
	Sender  ConnID
	Event   string
	Payload any
}

// Subscription is a transport group-membership change requested by a
// transition. The router applies subscriptions before delivering events so
// room-scoped fan-out observes the post-transition membership.
type Subscription struct {
	Conn  ConnID
	Room  RoomCode
	Leave bool
}

// Result is everything a registry transition asks the router to do.
// The registry itself never touches the transport.
type Result struct {
	Subscriptions []Subscription
	Events        []Outcome
}

// Send appends an outcome
func (r *Result) Send(o Outcome) {
	r.Events = append(r.Events, o)
}

// Join records a group join for the given connection
func (r *Result) Join(conn ConnID, room RoomCode) {
	r.Subscriptions = append(r.Subscriptions, Subscription{Conn: conn, Room: room})
}

// LeaveRoom records a group leave for the given connection
func (r *Result) LeaveRoom(conn ConnID, room RoomCode) {
	r.Subscriptions = append(r.Subscriptions, Subscription{Conn: conn, Room: room, Leave: true})
}
