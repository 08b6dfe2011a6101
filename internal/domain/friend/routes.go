package friend

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns friend graph router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.ListFriends)
	r.Get("/suggestions", h.Suggestions)
	r.Get("/requests/pending", h.PendingRequests)
	r.Post("/requests/{id}", h.SendRequest)
	r.Post("/requests/{id}/accept", h.AcceptRequest)
	r.Post("/requests/{id}/reject", h.RejectRequest)
	r.Post("/requests/{id}/cancel", h.CancelRequest)
	r.Delete("/{id}", h.Unfriend)
	r.Get("/{id}/status", h.Status)

	return r
}
