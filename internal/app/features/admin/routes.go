// internal/app/features/admin/routes.go
package admin

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the admin dashboard and notice routes. The caller
// applies the auth and admin-role middleware before mounting.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.DashboardStats)
	r.Post("/notices", h.CreateNotice)
	r.Get("/notices", h.ListNotices)
	r.Put("/notices/{id}", h.UpdateNotice)
	r.Delete("/notices/{id}", h.DeleteNotice)
}
