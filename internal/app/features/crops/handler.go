// internal/app/features/crops/handler.go
package crops

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/shared"
	cropstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/crops"
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

// summaryLimit caps how many variety summaries a crop listing embeds.
const summaryLimit = 5

// Handler owns the crop taxonomy handlers.
type Handler struct {
	Crops     *cropstore.Store
	Varieties *varietystore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

// NewHandler constructs a crops Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Crops:     cropstore.New(db),
		Varieties: varietystore.New(db),
		Users:     userstore.New(db),
		Log:       logger,
	}
}

type cropView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientificName,omitempty"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	AddedBy        string    `json:"addedBy"`
	Varieties      any       `json:"varieties"`
	CreatedAt      time.Time `json:"createdAt"`
}

func formatCrop(c models.Crop, varieties any) cropView {
	if varieties == nil {
		ids := make([]string, 0, len(c.Varieties))
		for _, id := range c.Varieties {
			ids = append(ids, id.Hex())
		}
		varieties = ids
	}
	return cropView{
		ID:             c.ID.Hex(),
		Name:           c.Name,
		ScientificName: c.ScientificName,
		Description:    c.Description,
		Category:       c.Category,
		AddedBy:        c.AddedBy.Hex(),
		Varieties:      varieties,
		CreatedAt:      c.CreatedAt,
	}
}

type createRequest struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientificName"`
	Description    string `json:"description"`
	Category       string `json:"category"`
}

// Create handles POST /api/crops (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req createRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	var errs []httpjson.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Crop name is required"})
	}
	if req.Category != "" && !models.ValidCategory(req.Category) {
		errs = append(errs, httpjson.FieldError{Field: "category", Message: "Invalid crop category"})
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Crops.Create(ctx, models.Crop{
		Name:           req.Name,
		ScientificName: req.ScientificName,
		Description:    req.Description,
		Category:       req.Category,
		AddedBy:        u.ID,
	})
	if err != nil {
		if errors.Is(err, cropstore.ErrDuplicateName) {
			httpjson.Fail(w, http.StatusBadRequest, "Crop already exists")
			return
		}
		httpjson.Internal(w, h.Log, "create crop", err)
		return
	}
	httpjson.OK(w, http.StatusCreated, httpjson.Payload{
		"crop": formatCrop(created, nil),
	})
}

// List handles GET /api/crops with optional category and name search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{
			"$regex":   regexp.QuoteMeta(strings.TrimSpace(search)),
			"$options": "i",
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Crops.Find(ctx, filter)
	if err != nil {
		httpjson.Internal(w, h.Log, "list crops", err)
		return
	}

	// One batched lookup covers the first few varieties of every crop.
	var ids []primitive.ObjectID
	for _, c := range list {
		n := len(c.Varieties)
		if n > summaryLimit {
			n = summaryLimit
		}
		ids = append(ids, c.Varieties[:n]...)
	}
	summaries := map[primitive.ObjectID]shared.VarietySummary{}
	if len(ids) > 0 {
		vs, err := h.Varieties.GetByIDs(ctx, ids)
		if err != nil {
			httpjson.Internal(w, h.Log, "load variety summaries", err)
			return
		}
		for _, v := range vs {
			summaries[v.ID] = shared.SummarizeVariety(v)
		}
	}

	views := make([]cropView, 0, len(list))
	for _, c := range list {
		embedded := []shared.VarietySummary{}
		for _, id := range c.Varieties {
			if s, ok := summaries[id]; ok {
				embedded = append(embedded, s)
				if len(embedded) == summaryLimit {
					break
				}
			}
		}
		views = append(views, formatCrop(c, embedded))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count": len(views),
		"crops": views,
	})
}

// Get handles GET /api/crops/{id} with full variety expansion.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Crop not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	crop, err := h.Crops.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, cropstore.ErrNotFound) {
			httpjson.NotFound(w, "Crop not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up crop", err)
		return
	}

	expanded := []shared.VarietyView{}
	if len(crop.Varieties) > 0 {
		vs, err := h.Varieties.GetByIDs(ctx, crop.Varieties)
		if err != nil {
			httpjson.Internal(w, h.Log, "load varieties", err)
			return
		}
		contributorIDs := make([]primitive.ObjectID, 0, len(vs))
		for _, v := range vs {
			contributorIDs = append(contributorIDs, v.Contributor)
		}
		contributors, err := h.Users.GetByIDs(ctx, contributorIDs)
		if err != nil {
			httpjson.Internal(w, h.Log, "load contributors", err)
			return
		}
		refs := &shared.Refs{
			Crops:        shared.CropRefs([]models.Crop{crop}),
			Contributors: shared.ContributorRefs(contributors),
		}
		for _, v := range vs {
			expanded = append(expanded, shared.FormatVariety(v, refs))
		}
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"crop": formatCrop(crop, expanded),
	})
}

type updateRequest struct {
	Name           *string `json:"name"`
	ScientificName *string `json:"scientificName"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
}

// Update handles PUT /api/crops/{id} (admin only).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Crop not found")
		return
	}

	var req updateRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	var errs []httpjson.FieldError
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Crop name cannot be empty"})
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		errs = append(errs, httpjson.FieldError{Field: "category", Message: "Invalid crop category"})
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Crops.Update(ctx, id, cropstore.Update{
		Name:           req.Name,
		ScientificName: req.ScientificName,
		Description:    req.Description,
		Category:       req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, cropstore.ErrNotFound):
			httpjson.NotFound(w, "Crop not found")
		case errors.Is(err, cropstore.ErrDuplicateName):
			httpjson.Fail(w, http.StatusBadRequest, "Crop already exists")
		default:
			httpjson.Internal(w, h.Log, "update crop", err)
		}
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"crop": formatCrop(updated, nil),
	})
}

// Delete handles DELETE /api/crops/{id} (admin only). Crops keep their
// varieties; deletion is refused while any remain.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Crop not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Crops.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, cropstore.ErrNotFound):
			httpjson.NotFound(w, "Crop not found")
		case errors.Is(err, cropstore.ErrHasVarieties):
			httpjson.Fail(w, http.StatusBadRequest, "Cannot delete crop with existing varieties")
		default:
			httpjson.Internal(w, h.Log, "delete crop", err)
		}
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "Crop deleted successfully",
	})
}
