// Package relay turns independent WebSocket connections into one shared
// broadcast topic with join/leave semantics. It owns every live connection
// session and fans chat events out to all active subscribers in arrival
// order.
package relay

// EventType discriminates the chat event union.
type EventType string

const (
	EventJoin  EventType = "JOIN"
	EventLeave EventType = "LEAVE"
	EventChat  EventType = "CHAT"
)

// Event is the wire payload exchanged with clients. JOIN and LEAVE content is
// synthesized by the relay; CHAT content is client-authored and relayed
// verbatim.
type Event struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content,omitempty"`
	Type    EventType `json:"type"`
}
