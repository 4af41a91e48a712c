// internal/app/features/auth/routes.go
package auth

import (
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the auth routes. Registration and login are open;
// profile routes require a valid token.
func (h *Handler) MountRoutes(r chi.Router, mw *authsys.Middleware) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(mw.Protect)
		r.Get("/profile", h.Profile)
		r.Put("/profile", h.UpdateProfile)
	})
}
