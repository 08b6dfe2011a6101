package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents a directory entry (matches users table). Accounts
// are created and authenticated by the identity service; this API
// only reads them.
type User struct {
	ID          uuid.UUID      `db:"id"`
	Username    string         `db:"username"`
	DisplayName string         `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	Bio         sql.NullString `db:"bio"`
	Verified    bool           `db:"verified"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Summary is the directory projection the graph domains consume
type Summary struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Verified    bool      `db:"verified" json:"verified"`
}
