// internal/app/features/public/handler.go
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/shared"
	cropstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/crops"
	noticestore "github.com/AfrozSheikh/krushivarsa/internal/app/store/notices"
	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	varietystore "github.com/AfrozSheikh/krushivarsa/internal/app/store/varieties"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/paging"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/timeouts"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// noticeLimit caps the public notice feed.
const noticeLimit = 10

// summaryLimit caps embedded variety summaries per crop.
const summaryLimit = 5

// Handler owns the unauthenticated read-only surface.
type Handler struct {
	Crops     *cropstore.Store
	Varieties *varietystore.Store
	Users     *userstore.Store
	Notices   *noticestore.Store
	Log       *zap.Logger
}

// NewHandler constructs a public Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Crops:     cropstore.New(db),
		Varieties: varietystore.New(db),
		Users:     userstore.New(db),
		Notices:   noticestore.New(db),
		Log:       logger,
	}
}

type publicCrop struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	ScientificName string                  `json:"scientificName,omitempty"`
	Category       string                  `json:"category"`
	Description    string                  `json:"description,omitempty"`
	Varieties      []shared.VarietySummary `json:"varieties"`
}

// ListCrops handles GET /api/public/crops: the taxonomy with a few verified
// variety summaries per crop.
func (h *Handler) ListCrops(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Crops.Find(ctx, bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "list crops", err)
		return
	}

	views := make([]publicCrop, 0, len(list))
	for _, c := range list {
		summaries := []shared.VarietySummary{}
		if len(c.Varieties) > 0 {
			vs, err := h.Varieties.Find(ctx, bson.M{
				"crop":                c.ID,
				"verification_status": models.VerificationVerified,
			}, options.Find().
				SetSort(bson.D{{Key: "created_at", Value: -1}}).
				SetLimit(summaryLimit))
			if err != nil {
				httpjson.Internal(w, h.Log, "load verified varieties", err)
				return
			}
			for _, v := range vs {
				summaries = append(summaries, shared.SummarizeVariety(v))
			}
		}
		views = append(views, publicCrop{
			ID:             c.ID.Hex(),
			Name:           c.Name,
			ScientificName: c.ScientificName,
			Category:       c.Category,
			Description:    c.Description,
			Varieties:      summaries,
		})
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count": len(views),
		"crops": views,
	})
}

// ListVarieties handles GET /api/public/varieties: verified records only, with
// the verification-internal fields stripped.
func (h *Handler) ListVarieties(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"verification_status": models.VerificationVerified}
	q := r.URL.Query()
	if crop := q.Get("crop"); crop != "" {
		id, err := primitive.ObjectIDFromHex(crop)
		if err != nil {
			httpjson.Fail(w, http.StatusBadRequest, "Invalid crop id")
			return
		}
		filter["crop"] = id
	}
	if t := q.Get("type"); t != "" {
		filter["type"] = t
	}
	if tl := q.Get("threatLevel"); tl != "" {
		filter["threat_level"] = tl
	}

	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	total, err := h.Varieties.Count(ctx, filter)
	if err != nil {
		httpjson.Internal(w, h.Log, "count varieties", err)
		return
	}
	list, err := h.Varieties.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit)))
	if err != nil {
		httpjson.Internal(w, h.Log, "list varieties", err)
		return
	}
	refs, err := h.loadRefs(ctx, list)
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	views := make([]shared.PublicVarietyView, 0, len(list))
	for _, v := range list {
		views = append(views, shared.FormatPublicVariety(v, refs))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":       len(views),
		"total":       total,
		"totalPages":  p.TotalPages(total),
		"currentPage": p.Page,
		"varieties":   views,
	})
}

// Variety handles GET /api/public/varieties/{id}. Anything other than a
// verified record reads as absent.
func (h *Handler) Variety(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Variety not found or not verified")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Varieties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found or not verified")
			return
		}
		httpjson.Internal(w, h.Log, "look up variety", err)
		return
	}
	if v.VerificationStatus != models.VerificationVerified {
		httpjson.NotFound(w, "Variety not found or not verified")
		return
	}
	refs, err := h.loadRefs(ctx, []models.Variety{v})
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"variety": shared.FormatPublicVariety(v, refs),
	})
}

type publicNotice struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoticesFeed handles GET /api/public/notices: the most recent active
// notices.
func (h *Handler) NoticesFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Notices.ActiveTop(ctx, noticeLimit)
	if err != nil {
		httpjson.Internal(w, h.Log, "list notices", err)
		return
	}
	views := make([]publicNotice, 0, len(list))
	for _, n := range list {
		views = append(views, publicNotice{
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
		})
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":   len(views),
		"notices": views,
	})
}

// Statistics handles GET /api/public/statistics over the verified subset.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	verified := bson.M{"verification_status": models.VerificationVerified}

	cropCount, err := h.Crops.Count(ctx, bson.M{})
	if err != nil {
		httpjson.Internal(w, h.Log, "count crops", err)
		return
	}
	varietyCount, err := h.Varieties.Count(ctx, verified)
	if err != nil {
		httpjson.Internal(w, h.Log, "count verified varieties", err)
		return
	}
	byThreat, err := h.Varieties.GroupCounts(ctx, "threat_level", verified)
	if err != nil {
		httpjson.Internal(w, h.Log, "group by threat level", err)
		return
	}
	byGermplasm, err := h.Varieties.GroupCounts(ctx, "germplasm_type", verified)
	if err != nil {
		httpjson.Internal(w, h.Log, "group by germplasm type", err)
		return
	}

	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"statistics": httpjson.Payload{
			"totalCrops":        cropCount,
			"verifiedVarieties": varietyCount,
			"byThreatLevel":     byThreat,
			"byGermplasmType":   byGermplasm,
		},
	})
}

func (h *Handler) loadRefs(ctx context.Context, vs []models.Variety) (*shared.Refs, error) {
	cropIDs := make([]primitive.ObjectID, 0, len(vs))
	userIDs := make([]primitive.ObjectID, 0, len(vs))
	for _, v := range vs {
		cropIDs = append(cropIDs, v.Crop)
		userIDs = append(userIDs, v.Contributor)
	}
	cropDocs, err := h.Crops.GetByIDs(ctx, cropIDs)
	if err != nil {
		return nil, err
	}
	userDocs, err := h.Users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	return &shared.Refs{
		Crops:        shared.CropRefs(cropDocs),
		Contributors: shared.ContributorRefs(userDocs),
	}, nil
}
