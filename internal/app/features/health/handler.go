// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler answers liveness probes with a database ping.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

// Check handles GET /health.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check ping failed", zap.Error(err))
		httpjson.Fail(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"status":   "ok",
		"database": "connected",
	})
}
