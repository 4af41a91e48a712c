// internal/app/features/crops/routes.go
package crops

import (
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/authz"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the crop routes. Reads are open; writes are admin only.
func (h *Handler) MountRoutes(r chi.Router, mw *authsys.Middleware) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(mw.Protect)
		r.Use(authz.RequireRoles(models.RoleAdmin))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
