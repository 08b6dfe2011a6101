package user

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse for GET /users/{id}
type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Verified       bool      `json:"verified"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	IsFollowing    bool      `json:"is_following"`
	IsFriend       bool      `json:"is_friend"`
	IsBlocked      bool      `json:"is_blocked"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProfileFromEntity converts entity to response
func ProfileFromEntity(u *User) *ProfileResponse {
	resp := &ProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Verified:    u.Verified,
		CreatedAt:   u.CreatedAt,
	}
	if u.AvatarURL.Valid {
		resp.AvatarURL = &u.AvatarURL.String
	}
	if u.Bio.Valid {
		resp.Bio = &u.Bio.String
	}
	return resp
}
