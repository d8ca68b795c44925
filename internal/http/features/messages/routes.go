package messages

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers message routes on a router mounted at
// /api/v1/organizations/{organizationId}/messages. Read and write routes get
// their own rate limiter.
func (h *Handler) RegisterRoutes(r chi.Router, readLimit, writeLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(readLimit)
		r.Get("/", h.GetAll)
		r.Get("/{id}", h.GetByID)
	})
	r.Group(func(r chi.Router) {
		r.Use(writeLimit)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
