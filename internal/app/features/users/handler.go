// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/shared"
	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/limits"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/timeouts"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin user-management handlers.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Users: userstore.New(db), Log: logger}
}

// List handles GET /api/users. Admin accounts never appear in the listing.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"role": bson.M{"$ne": models.RoleAdmin}}
	if role := r.URL.Query().Get("role"); role != "" {
		if !models.ValidRole(role) || role == models.RoleAdmin {
			httpjson.Fail(w, http.StatusBadRequest, "Invalid role filter")
			return
		}
		filter["role"] = role
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidStatus(status) {
			httpjson.Fail(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.Find(ctx, filter)
	if err != nil {
		httpjson.Internal(w, h.Log, "list users", err)
		return
	}
	views := make([]shared.UserView, 0, len(list))
	for _, u := range list {
		views = append(views, shared.FormatUser(u))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count": len(views),
		"users": views,
	})
}

// Pending handles GET /api/users/pending.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.Find(ctx, bson.M{
		"role":   bson.M{"$ne": models.RoleAdmin},
		"status": models.StatusPending,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "list pending users", err)
		return
	}
	views := make([]shared.UserView, 0, len(list))
	for _, u := range list {
		views = append(views, shared.FormatUser(u))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count": len(views),
		"users": views,
	})
}

type approveRequest struct {
	Action string `json:"action"`
}

// Approve handles PUT /api/users/{userId}/approve with action approve or
// reject. A rejected or approved account never returns to pending.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.NotFound(w, "User not found")
		return
	}

	var req approveRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	var status string
	var approved bool
	switch req.Action {
	case "approve":
		status, approved = models.StatusApproved, true
	case "reject":
		status, approved = models.StatusRejected, false
	default:
		httpjson.Fail(w, http.StatusBadRequest, "Action must be approve or reject")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "User not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up user", err)
		return
	}
	if target.IsAdmin() {
		httpjson.Fail(w, http.StatusBadRequest, "Cannot modify admin user")
		return
	}

	updated, err := h.Users.SetApproval(ctx, id, status, approved)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "User not found")
			return
		}
		httpjson.Internal(w, h.Log, "set approval", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "User " + status,
		"user":    shared.FormatUser(updated),
	})
}

// Delete handles DELETE /api/users/{userId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		httpjson.NotFound(w, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "User not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up user", err)
		return
	}
	if target.IsAdmin() {
		httpjson.Fail(w, http.StatusBadRequest, "Cannot delete admin user")
		return
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "User not found")
			return
		}
		httpjson.Internal(w, h.Log, "delete user", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "User deleted successfully",
	})
}
