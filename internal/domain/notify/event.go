package notify

import (
	"time"

	"github.com/google/uuid"
)

// EventType for relationship events pushed over WebSocket
type EventType string

const (
	EventFollowCreated         EventType = "follow.created"
	EventFriendRequestReceived EventType = "friend.request.received"
	EventFriendRequestAccepted EventType = "friend.request.accepted"
)

// Event is a realtime notification addressed to a single user.
// Advisory only: delivery is best-effort and nothing in the graph
// services depends on it.
type Event struct {
	Type       EventType   `json:"type"`
	ActorID    uuid.UUID   `json:"actor_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}
