package block

import (
	"time"

	"github.com/google/uuid"
)

// Edge represents a user-to-user block. Stored directed (who blocked
// whom) but always queried symmetrically for visibility checks.
type Edge struct {
	BlockerID uuid.UUID `db:"blocker_id" json:"blocker_id"`
	BlockedID uuid.UUID `db:"blocked_id" json:"blocked_id"`
	BlockedAt time.Time `db:"blocked_at" json:"blocked_at"`
}
