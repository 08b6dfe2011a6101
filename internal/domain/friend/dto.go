package friend

import (
	"time"

	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/domain/user"
)

// RequestResponse is the friend request payload returned on send
type RequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	AddresseeID uuid.UUID  `json:"addressee_id"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// RequestFromEntity converts entity to response DTO
func RequestFromEntity(req *Request) *RequestResponse {
	resp := &RequestResponse{
		ID:          req.ID,
		RequesterID: req.RequesterID,
		AddresseeID: req.AddresseeID,
		Status:      req.Status,
		RequestedAt: req.RequestedAt,
	}
	if req.RespondedAt.Valid {
		t := req.RespondedAt.Time
		resp.RespondedAt = &t
	}
	return resp
}

// PendingRequestView is an incoming pending request with the requester
// resolved for display
type PendingRequestView struct {
	ID          uuid.UUID     `json:"id"`
	Requester   *user.Summary `json:"requester"`
	RequestedAt time.Time     `json:"requested_at"`
}

// FriendStatusResponse reports whether two users are friends
type FriendStatusResponse struct {
	IsFriend bool `json:"is_friend"`
}

// SuggestionResponse is a ranked friend-of-friend candidate
type SuggestionResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         *string   `json:"avatar_url,omitempty"`
	MutualFriendCount int       `json:"mutual_friend_count"`
	HasPendingRequest bool      `json:"has_pending_request"`
}

type listQuery struct {
	Page     int `json:"page" validate:"gte=1"`
	PageSize int `json:"page_size" validate:"gte=1,lte=100"`
}

type suggestionsQuery struct {
	Limit int `json:"limit" validate:"gte=1,lte=100"`
}
