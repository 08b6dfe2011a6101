package friend

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents friend request state. Pending is the only
// non-terminal state; accepted, rejected and cancelled are final.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Request represents a friend request row. An accepted row is the one
// and only representation of a friendship: unfriending deletes it.
type Request struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	RequesterID uuid.UUID    `db:"requester_id" json:"requester_id"`
	AddresseeID uuid.UUID    `db:"addressee_id" json:"addressee_id"`
	Status      Status       `db:"status" json:"status"`
	RequestedAt time.Time    `db:"requested_at" json:"requested_at"`
	RespondedAt sql.NullTime `db:"responded_at" json:"-"`
}

// CounterpartID returns the other participant of the request
func (r *Request) CounterpartID(userID uuid.UUID) uuid.UUID {
	if r.RequesterID == userID {
		return r.AddresseeID
	}
	return r.RequesterID
}

// Pair is an accepted friendship edge, used by the suggestion traversal
type Pair struct {
	RequesterID uuid.UUID `db:"requester_id"`
	AddresseeID uuid.UUID `db:"addressee_id"`
}
