package block

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns block graph router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/{id}", h.Block)
	r.Delete("/{id}", h.Unblock)
	r.Get("/{id}/status", h.Status)

	return r
}
