// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the user-management routes. The caller applies the
// auth and admin-role middleware to the router before mounting.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/pending", h.Pending)
	r.Put("/{userId}/approve", h.Approve)
	r.Delete("/{userId}", h.Delete)
}
