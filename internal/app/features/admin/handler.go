// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	cropstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/crops"
	noticestore "github.com/AfrozSheikh/krushivarsa/internal/app/store/notices"
	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	varietystore "github.com/AfrozSheikh/krushivarsa/internal/app/store/varieties"
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
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

// Handler owns the admin dashboard and notice-board handlers.
type Handler struct {
	Crops     *cropstore.Store
	Varieties *varietystore.Store
	Users     *userstore.Store
	Notices   *noticestore.Store
	Log       *zap.Logger
}

// NewHandler constructs an admin Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Crops:     cropstore.New(db),
		Varieties: varietystore.New(db),
		Users:     userstore.New(db),
		Notices:   noticestore.New(db),
		Log:       logger,
	}
}

// DashboardStats handles GET /api/admin/dashboard/stats.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	cropCount, err := h.Crops.Count(ctx, bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "count crops", err)
		return
	}
	varietyCount, err := h.Varieties.Count(ctx, bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "count varieties", err)
		return
	}
	pendingCount, err := h.Varieties.Count(ctx, bson.M{"verification_status": models.VerificationPending})
	if err != nil {
		httpjson.Internal(w, h.Log, "count pending varieties", err)
		return
	}
	farmerCount, err := h.Users.Count(ctx, bson.M{"role": models.RoleFarmer, "status": models.StatusApproved})
	if err != nil {
		httpjson.Internal(w, h.Log, "count farmers", err)
		return
	}
	institutionCount, err := h.Users.Count(ctx, bson.M{"role": models.RoleInstitution, "status": models.StatusApproved})
	if err != nil {
		httpjson.Internal(w, h.Log, "count institutions", err)
		return
	}
	byThreat, err := h.Varieties.GroupCounts(ctx, "threat_level", bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "group by threat level", err)
		return
	}
	byGermplasm, err := h.Varieties.GroupCounts(ctx, "germplasm_type", bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "group by germplasm type", err)
		return
	}
	byType, err := h.Varieties.GroupCounts(ctx, "type", bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "group by type", err)
		return
	}

	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"stats": httpjson.Payload{
			"totalCrops":           cropCount,
			"totalVarieties":       varietyCount,
			"pendingVerifications": pendingCount,
			"approvedFarmers":      farmerCount,
			"approvedInstitutions": institutionCount,
			"byThreatLevel":        byThreat,
			"byGermplasmType":      byGermplasm,
			"byType":               byType,
		},
	})
}

type noticeView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedBy string     `json:"createdBy"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func formatNotice(n models.Notice) noticeView {
	return noticeView{
		ID:        n.ID.Hex(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedBy: n.CreatedBy.Hex(),
		IsActive:  n.IsActive,
		ExpiresAt: n.ExpiresAt,
		CreatedAt: n.CreatedAt,
	}
}

type noticeCreateRequest struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// CreateNotice handles POST /api/admin/notices.
func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req noticeCreateRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	var errs []httpjson.FieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, httpjson.FieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, httpjson.FieldError{Field: "content", Message: "Content is required"})
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Notices.Create(ctx, noticestore.CreateInput{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: caller.ID,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, "create notice", err)
		return
	}
	httpjson.OK(w, http.StatusCreated, httpjson.Payload{
		"notice": formatNotice(created),
	})
}

// ListNotices handles GET /api/admin/notices with an optional active=true
// filter.
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notices.List(ctx, activeOnly)
	if err != nil {
		httpjson.Internal(w, h.Log, "list notices", err)
		return
	}
	views := make([]noticeView, 0, len(list))
	for _, n := range list {
		views = append(views, formatNotice(n))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":   len(views),
		"notices": views,
	})
}

type noticeUpdateRequest struct {
	Title     *string    `json:"title"`
	Content   *string    `json:"content"`
	IsActive  *bool      `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// UpdateNotice handles PUT /api/admin/notices/{id}.
func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Notice not found")
		return
	}

	var req noticeUpdateRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		httpjson.ValidationFail(w, []httpjson.FieldError{{Field: "title", Message: "Title cannot be empty"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Notices.Update(ctx, id, noticestore.UpdateInput{
		Title:     req.Title,
		Content:   req.Content,
		IsActive:  req.IsActive,
		ExpiresAt: req.ExpiresAt,
		HasExpiry: req.ExpiresAt != nil,
	})
	if err != nil {
		if errors.Is(err, noticestore.ErrNotFound) {
			httpjson.NotFound(w, "Notice not found")
			return
		}
		httpjson.Internal(w, h.Log, "update notice", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"notice": formatNotice(updated),
	})
}

// DeleteNotice handles DELETE /api/admin/notices/{id}.
func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Notice not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notices.Delete(ctx, id); err != nil {
		if errors.Is(err, noticestore.ErrNotFound) {
			httpjson.NotFound(w, "Notice not found")
			return
		}
		httpjson.Internal(w, h.Log, "delete notice", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "Notice deleted successfully",
	})
}
