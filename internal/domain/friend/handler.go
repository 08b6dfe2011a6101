package friend

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

// Handler handles friend graph HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates friend handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendRequest handles POST /friends/requests/{id}, where id is the
// addressee's user ID
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	addresseeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	req, err := h.service.SendRequest(r.Context(), userID, addresseeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfRequest):
			response.BadRequest(w, "Cannot send a friend request to yourself")
		case errors.Is(err, ErrAlreadyFriends):
			response.Conflict(w, "Users are already friends")
		case errors.Is(err, ErrRequestExists):
			response.Conflict(w, "A pending request already exists between these users")
		default:
			logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to send friend request")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, RequestFromEntity(req))
}

// AcceptRequest handles POST /friends/requests/{id}/accept
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, StatusAccepted)
}

// RejectRequest handles POST /friends/requests/{id}/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, StatusRejected)
}

// CancelRequest handles POST /friends/requests/{id}/cancel
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, StatusCancelled)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, to Status) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	switch to {
	case StatusAccepted:
		err = h.service.AcceptRequest(r.Context(), requestID, userID)
	case StatusRejected:
		err = h.service.RejectRequest(r.Context(), requestID, userID)
	case StatusCancelled:
		err = h.service.CancelRequest(r.Context(), requestID, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.NotFound(w, "Friend request not found")
		case errors.Is(err, ErrRequestNotPending):
			response.PreconditionFailed(w, "Friend request is not pending")
		default:
			logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to resolve friend request")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// PendingRequests handles GET /friends/requests/pending
func (h *Handler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reqs, err := h.service.GetPendingRequests(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to list pending friend requests")
		response.InternalError(w)
		return
	}

	response.OK(w, reqs)
}

// ListFriends handles GET /friends
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	q := listQuery{Page: 1, PageSize: DefaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid page")
			return
		}
		q.Page = n
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid page_size")
			return
		}
		q.PageSize = n
	}

	if errs := validator.Validate(q); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	friends, err := h.service.GetFriends(r.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to list friends")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, friends, response.Meta{Page: q.Page, Limit: q.PageSize, Count: len(friends)})
}

// Unfriend handles DELETE /friends/{id}
func (h *Handler) Unfriend(w http.ResponseWriter, r *http.Request) {
	friendID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Unfriend(r.Context(), userID, friendID); err != nil {
		switch {
		case errors.Is(err, ErrSelfUnfriend):
			response.BadRequest(w, "Cannot unfriend yourself")
		case errors.Is(err, ErrFriendshipNotFound):
			response.NotFound(w, "Friendship not found")
		default:
			logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to unfriend user")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Status handles GET /friends/{id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	otherID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	isFriend, err := h.service.IsFriend(r.Context(), userID, otherID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, FriendStatusResponse{IsFriend: isFriend})
}

// Suggestions handles GET /friends/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := suggestionsQuery{Limit: DefaultSuggestionLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		q.Limit = n
	}

	if errs := validator.Validate(q); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	suggestions, err := h.service.GetSuggestions(r.Context(), userID, q.Limit)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to compute friend suggestions")
		response.InternalError(w)
		return
	}

	response.OK(w, suggestions)
}
