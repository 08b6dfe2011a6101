package follow

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flocknet/flocknet-api/internal/middleware"
	"github.com/flocknet/flocknet-api/internal/pkg/logger"
	"github.com/flocknet/flocknet-api/internal/pkg/response"
	"github.com/flocknet/flocknet-api/internal/pkg/validator"
)

// Handler handles follow graph HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates follow handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Follow handles POST /follows/{id}
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Follow(r.Context(), userID, targetID); err != nil {
		if errors.Is(err, ErrSelfFollow) {
			response.BadRequest(w, "Cannot follow yourself")
			return
		}
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to follow user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Unfollow handles DELETE /follows/{id}
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Unfollow(r.Context(), userID, targetID); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to unfollow user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Status handles GET /follows/{id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	isFollowing, err := h.service.IsFollowing(r.Context(), userID, targetID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, FollowStatusResponse{IsFollowing: isFollowing})
}

// FollowersCount handles GET /follows/followers/count
func (h *Handler) FollowersCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	count, err := h.service.FollowersCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, CountResponse{Count: count})
}

// FollowingCount handles GET /follows/following/count
func (h *Handler) FollowingCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	count, err := h.service.FollowingCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, CountResponse{Count: count})
}

// ListFollowers handles GET /follows/followers
func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	users, err := h.service.GetFollowers(r.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to list followers")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, users, response.Meta{Page: q.Page, Limit: q.PageSize, Count: len(users)})
}

// ListFollowing handles GET /follows/following
func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	users, err := h.service.GetFollowing(r.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to list following")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, users, response.Meta{Page: q.Page, Limit: q.PageSize, Count: len(users)})
}

func parseListQuery(w http.ResponseWriter, r *http.Request) (listQuery, bool) {
	q := listQuery{Page: 1, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid page")
			return q, false
		}
		q.Page = n
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid page_size")
			return q, false
		}
		q.PageSize = n
	}

	if errs := validator.Validate(q); errs != nil {
		response.ValidationError(w, errs)
		return q, false
	}
	return q, true
}
