// internal/app/features/varieties/routes.go
package varieties

import (
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/authz"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the variety routes. Listing and detail take an
// optional token so admins see unverified records; everything else is
// authenticated, with the verification routes restricted to admins.
func (h *Handler) MountRoutes(r chi.Router, mw *authsys.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Optional)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Protect)
		r.Get("/user/mine", h.Mine)

		r.Group(func(r chi.Router) {
			r.Use(authz.RequireRoles(models.RoleFarmer, models.RoleInstitution, models.RoleAdmin))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(authz.RequireRoles(models.RoleAdmin))
			r.Get("/admin/pending", h.AdminPending)
			r.Put("/{id}/verify", h.Verify)
		})
	})
}
