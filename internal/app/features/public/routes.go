// internal/app/features/public/routes.go
package public

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the unauthenticated read-only routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/crops", h.ListCrops)
	r.Get("/varieties", h.ListVarieties)
	r.Get("/varieties/{id}", h.Variety)
	r.Get("/notices", h.NoticesFeed)
	r.Get("/statistics", h.Statistics)
}
