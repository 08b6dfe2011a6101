package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user directory router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/{id}", h.GetProfile)

	return r
}
