package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/middleware"
	"github.com/flocknet/flocknet-api/internal/pkg/logger"
	"github.com/flocknet/flocknet-api/internal/pkg/response"
)

// FollowStats exposes the follow-graph reads the profile page needs
type FollowStats interface {
	FollowersCount(ctx context.Context, userID uuid.UUID) (int, error)
	FollowingCount(ctx context.Context, userID uuid.UUID) (int, error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
}

// BlockChecker reports whether a block exists between two users
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error)
}

// FriendChecker reports whether two users are friends
type FriendChecker interface {
	IsFriend(ctx context.Context, userID1, userID2 uuid.UUID) (bool, error)
}

// Handler handles user directory HTTP requests
type Handler struct {
	directory Directory
	follows   FollowStats
	blocks    BlockChecker
	friends   FriendChecker
}

// NewHandler creates user handler
func NewHandler(directory Directory, follows FollowStats, blocks BlockChecker, friends FriendChecker) *Handler {
	return &Handler{
		directory: directory,
		follows:   follows,
		blocks:    blocks,
		friends:   friends,
	}
}

// GetProfile handles GET /users/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	ctx := r.Context()
	viewerID := middleware.GetUserID(ctx)

	u, err := h.directory.GetByID(ctx, targetID)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("Failed to load user")
		response.InternalError(w)
		return
	}
	if u == nil {
		response.NotFound(w, "User not found")
		return
	}

	resp := ProfileFromEntity(u)

	if resp.FollowersCount, err = h.follows.FollowersCount(ctx, targetID); err != nil {
		response.InternalError(w)
		return
	}
	if resp.FollowingCount, err = h.follows.FollowingCount(ctx, targetID); err != nil {
		response.InternalError(w)
		return
	}

	if viewerID != uuid.Nil && viewerID != targetID {
		if resp.IsFollowing, err = h.follows.IsFollowing(ctx, viewerID, targetID); err != nil {
			response.InternalError(w)
			return
		}
		if resp.IsFriend, err = h.friends.IsFriend(ctx, viewerID, targetID); err != nil {
			response.InternalError(w)
			return
		}
		if resp.IsBlocked, err = h.blocks.IsBlocked(ctx, viewerID, targetID); err != nil {
			response.InternalError(w)
			return
		}
	}

	response.OK(w, resp)
}
