package follow

import (
	"time"

	"github.com/google/uuid"
)

// Edge represents a directed follow relation. Identity is the
// (follower_id, following_id) pair; the table enforces uniqueness.
type Edge struct {
	FollowerID  uuid.UUID `db:"follower_id" json:"follower_id"`
	FollowingID uuid.UUID `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
