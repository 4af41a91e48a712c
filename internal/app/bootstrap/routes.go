// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/admin"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/crops"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/health"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/public"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/users"
	"github.com/AfrozSheikh/krushivarsa/internal/app/features/varieties"
	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/authz"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/metrics"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/ratelimit"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BuildRouter wires middleware and mounts every feature router.
func BuildRouter(cfg Config, client *mongo.Client, db *mongo.Database, logger *zap.Logger) chi.Router {
	tokens, err := authsys.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		// Config validation catches an empty secret before this point.
		logger.Fatal("token manager", zap.Error(err))
	}
	mw := authsys.NewMiddleware(tokens, userstore.NewFetcher(db))
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(limiter.Middleware)
	r.Use(metrics.Instrument)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.NotFound(w, "Route not found")
	})

	healthH := health.NewHandler(client, logger)
	r.Get("/health", healthH.Check)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authH := auth.NewHandler(db, tokens, logger)
	usersH := users.NewHandler(db, logger)
	cropsH := crops.NewHandler(db, logger)
	varietiesH := varieties.NewHandler(db, cfg.MaxImageMB, logger)
	adminH := admin.NewHandler(db, logger)
	publicH := public.NewHandler(db, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authH.MountRoutes(r, mw)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(mw.Protect)
			r.Use(authz.RequireRoles(models.RoleAdmin))
			usersH.MountRoutes(r)
		})
		r.Route("/crops", func(r chi.Router) {
			cropsH.MountRoutes(r, mw)
		})
		r.Route("/varieties", func(r chi.Router) {
			varietiesH.MountRoutes(r, mw)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.Protect)
			r.Use(authz.RequireRoles(models.RoleAdmin))
			adminH.MountRoutes(r)
		})
		r.Route("/public", func(r chi.Router) {
			publicH.MountRoutes(r)
		})
	})

	return r
}
