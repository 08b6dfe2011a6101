package block

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

// Handler handles block graph HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates block handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Block handles POST /blocks/{id}
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Block(r.Context(), userID, targetID); err != nil {
		if errors.Is(err, ErrSelfBlock) {
			response.BadRequest(w, "Cannot block yourself")
			return
		}
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to block user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Unblock handles DELETE /blocks/{id}
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.Unblock(r.Context(), userID, targetID); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to unblock user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Status handles GET /blocks/{id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	isBlocked, err := h.service.IsBlocked(r.Context(), userID, targetID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, BlockStatusResponse{IsBlocked: isBlocked})
}

// List handles GET /blocks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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
	users, err := h.service.GetBlockedUsers(r.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to list blocked users")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, users, response.Meta{Page: q.Page, Limit: q.PageSize, Count: len(users)})
}
