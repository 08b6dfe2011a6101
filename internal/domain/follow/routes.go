package follow

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns follow graph router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/followers", h.ListFollowers)
	r.Get("/followers/count", h.FollowersCount)
	r.Get("/following", h.ListFollowing)
	r.Get("/following/count", h.FollowingCount)

	r.Post("/{id}", h.Follow)
	r.Delete("/{id}", h.Unfollow)
	r.Get("/{id}/status", h.Status)

	return r
}
