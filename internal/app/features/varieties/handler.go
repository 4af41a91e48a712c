// internal/app/features/varieties/handler.go
package varieties

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AfrozSheikh/krushivarsa/internal/app/features/shared"
	"github.com/AfrozSheikh/krushivarsa/internal/app/policy/varietypolicy"
	cropstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/crops"
	userstore "github.com/AfrozSheikh/krushivarsa/internal/app/store/users"
	varietystore "github.com/AfrozSheikh/krushivarsa/internal/app/store/varieties"
	authsys "github.com/AfrozSheikh/krushivarsa/internal/app/system/auth"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/httpjson"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/imagedata"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/limits"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/normalize"
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

// Handler owns the germplasm variety handlers.
type Handler struct {
	Varieties  *varietystore.Store
	Crops      *cropstore.Store
	Users      *userstore.Store
	Log        *zap.Logger
	MaxImageMB int
}

// NewHandler constructs a varieties Handler.
func NewHandler(db *mongo.Database, maxImageMB int, logger *zap.Logger) *Handler {
	return &Handler{
		Varieties:  varietystore.New(db),
		Crops:      cropstore.New(db),
		Users:      userstore.New(db),
		Log:        logger,
		MaxImageMB: maxImageMB,
	}
}

// loadRefs resolves the crop and contributor summaries for a result page.
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

// List handles GET /api/varieties. Anonymous and non-admin callers only
// ever see verified records, whatever filters they send.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := authsys.CurrentUser(r)
	filter := varietypolicy.VisibilityFilter(caller)

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
	if g := q.Get("germplasmType"); g != "" {
		filter["germplasm_type"] = g
	}
	if tl := q.Get("threatLevel"); tl != "" {
		filter["threat_level"] = tl
	}
	if v := q.Get("verified"); v != "" && caller != nil && caller.IsAdmin() {
		if v == "true" {
			filter["verification_status"] = models.VerificationVerified
		} else {
			filter["verification_status"] = bson.M{"$ne": models.VerificationVerified}
		}
	}
	if search := strings.TrimSpace(q.Get("search")); search != "" {
		filter["$text"] = bson.M{"$search": search}
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
	views := make([]shared.VarietyView, 0, len(list))
	for _, v := range list {
		views = append(views, shared.FormatVariety(v, refs))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":       len(views),
		"total":       total,
		"totalPages":  p.TotalPages(total),
		"currentPage": p.Page,
		"varieties":   views,
	})
}

// Get handles GET /api/varieties/{id}. Non-admin callers are denied on
// anything that is not verified.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Variety not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Varieties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up variety", err)
		return
	}
	caller, _ := authsys.CurrentUser(r)
	if !varietypolicy.CanSee(caller, &v) {
		httpjson.Fail(w, http.StatusForbidden, "Access denied")
		return
	}
	refs, err := h.loadRefs(ctx, []models.Variety{v})
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"variety": shared.FormatVariety(v, refs),
	})
}

// Mine handles GET /api/varieties/user/mine: the caller's own
// contributions in every verification state.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Varieties.Find(ctx, bson.M{"contributor": caller.ID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		httpjson.Internal(w, h.Log, "list own varieties", err)
		return
	}
	refs, err := h.loadRefs(ctx, list)
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	views := make([]shared.VarietyView, 0, len(list))
	for _, v := range list {
		views = append(views, shared.FormatVariety(v, refs))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":     len(views),
		"varieties": views,
	})
}

type createRequest struct {
	CropID                 string          `json:"cropId"`
	Name                   string          `json:"name"`
	Type                   string          `json:"type"`
	GermplasmType          string          `json:"germplasmType"`
	Location               models.Location `json:"location"`
	ContactNumber          string          `json:"contactNumber"`
	SpecialCharacteristics json.RawMessage `json:"specialCharacteristics"`
	Notes                  string          `json:"notes"`
	DetailedDescription    string          `json:"detailedDescription"`
	Image                  json.RawMessage `json:"image"`
	ThreatLevel            string          `json:"threatLevel"`
}

// Create handles POST /api/varieties. The caller's role decides which
// variety types it may contribute; admin submissions skip the pending state.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req createRequest
	if !httpjson.DecodeBody(w, r, &req, limits.ImageBody(h.MaxImageMB)) {
		return
	}

	var errs []httpjson.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Variety name is required"})
	}
	if !models.ValidVarietyType(req.Type) {
		errs = append(errs, httpjson.FieldError{Field: "type", Message: "Invalid variety type"})
	}
	if !models.ValidGermplasmType(req.GermplasmType) {
		errs = append(errs, httpjson.FieldError{Field: "germplasmType", Message: "Invalid germplasm type"})
	}
	if req.ThreatLevel != "" && !models.ValidThreatLevel(req.ThreatLevel) {
		errs = append(errs, httpjson.FieldError{Field: "threatLevel", Message: "Invalid threat level"})
	}
	cropID, err := primitive.ObjectIDFromHex(req.CropID)
	if err != nil {
		errs = append(errs, httpjson.FieldError{Field: "cropId", Message: "A valid crop id is required"})
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	if ok, msg := varietypolicy.CanCreateType(caller.Role, req.Type); !ok {
		httpjson.Fail(w, http.StatusForbidden, msg)
		return
	}

	img, err := imagedata.Normalize(req.Image, h.MaxImageMB)
	if err != nil {
		httpjson.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	characteristics, ok := normalize.Characteristics(req.SpecialCharacteristics)
	if !ok {
		httpjson.Fail(w, http.StatusBadRequest, "specialCharacteristics must be a list or a comma-separated string")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Crops.GetByID(ctx, cropID); err != nil {
		if errors.Is(err, cropstore.ErrNotFound) {
			httpjson.NotFound(w, "Crop not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up crop", err)
		return
	}

	// Location and contact fall back to the contributor's own.
	location := req.Location
	if location.Village == "" && location.District == "" && location.State == "" {
		location = caller.Location
	}
	contact := req.ContactNumber
	if contact == "" {
		contact = caller.ContactNumber
	}

	status, verified, verifiedBy := varietypolicy.InitialVerification(caller)
	v := models.Variety{
		Crop:                   cropID,
		Name:                   req.Name,
		Type:                   req.Type,
		GermplasmType:          req.GermplasmType,
		Contributor:            caller.ID,
		Location:               location,
		ContactNumber:          contact,
		SpecialCharacteristics: characteristics,
		Notes:                  req.Notes,
		DetailedDescription:    req.DetailedDescription,
		Image:                  img,
		ThreatLevel:            req.ThreatLevel,
		IsVerified:             verified,
		VerificationStatus:     status,
		VerifiedBy:             verifiedBy,
	}
	created, err := h.Varieties.Create(ctx, v)
	if err != nil {
		if errors.Is(err, varietystore.ErrDuplicateName) {
			httpjson.Fail(w, http.StatusBadRequest, "Variety already exists for this crop")
			return
		}
		httpjson.Internal(w, h.Log, "create variety", err)
		return
	}

	// Reference bookkeeping is best effort; a failure leaves the variety
	// in place and is caught by the invariant checker.
	if err := h.Crops.PushVariety(ctx, cropID, created.ID); err != nil {
		h.Log.Warn("attach variety to crop", zap.Error(err), zap.String("variety", created.ID.Hex()))
	}
	if err := h.Users.PushContributedVariety(ctx, caller.ID, created.ID); err != nil {
		h.Log.Warn("attach variety to contributor", zap.Error(err), zap.String("variety", created.ID.Hex()))
	}

	message := "Variety submitted successfully. Pending verification."
	if caller.IsAdmin() {
		message = "Variety added successfully"
	}
	refs, err := h.loadRefs(ctx, []models.Variety{created})
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	httpjson.OK(w, http.StatusCreated, httpjson.Payload{
		"message": message,
		"variety": shared.FormatVariety(created, refs),
	})
}

type updateRequest struct {
	Name                   *string          `json:"name"`
	Type                   *string          `json:"type"`
	GermplasmType          *string          `json:"germplasmType"`
	Location               *models.Location `json:"location"`
	ContactNumber          *string          `json:"contactNumber"`
	SpecialCharacteristics json.RawMessage  `json:"specialCharacteristics"`
	Notes                  *string          `json:"notes"`
	DetailedDescription    *string          `json:"detailedDescription"`
	Image                  json.RawMessage  `json:"image"`
	ThreatLevel            *string          `json:"threatLevel"`
	VerificationStatus     *string          `json:"verificationStatus"`
}

// Update handles PUT /api/varieties/{id}. Contributors may edit their own
// records; only an admin update may carry a verificationStatus, which is
// applied with the full verify side effects.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Variety not found")
		return
	}

	var req updateRequest
	if !httpjson.DecodeBody(w, r, &req, limits.ImageBody(h.MaxImageMB)) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Varieties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up variety", err)
		return
	}
	if !varietypolicy.CanMutate(caller, &existing) {
		httpjson.Fail(w, http.StatusForbidden, "Not authorized to update this variety")
		return
	}

	var errs []httpjson.FieldError
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Variety name cannot be empty"})
	}
	if req.Type != nil && !models.ValidVarietyType(*req.Type) {
		errs = append(errs, httpjson.FieldError{Field: "type", Message: "Invalid variety type"})
	}
	if req.GermplasmType != nil && !models.ValidGermplasmType(*req.GermplasmType) {
		errs = append(errs, httpjson.FieldError{Field: "germplasmType", Message: "Invalid germplasm type"})
	}
	if req.ThreatLevel != nil && !models.ValidThreatLevel(*req.ThreatLevel) {
		errs = append(errs, httpjson.FieldError{Field: "threatLevel", Message: "Invalid threat level"})
	}
	if req.VerificationStatus != nil {
		if !caller.IsAdmin() {
			httpjson.Fail(w, http.StatusForbidden, "Only admins can change verification status")
			return
		}
		if !models.ValidVerificationStatus(*req.VerificationStatus) {
			errs = append(errs, httpjson.FieldError{Field: "verificationStatus", Message: "Invalid verification status"})
		}
	}
	if req.Type != nil && *req.Type != existing.Type {
		if ok, msg := varietypolicy.CanCreateType(caller.Role, *req.Type); !ok {
			httpjson.Fail(w, http.StatusForbidden, msg)
			return
		}
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	mut := varietystore.Update{
		Name:                req.Name,
		Type:                req.Type,
		GermplasmType:       req.GermplasmType,
		Location:            req.Location,
		ContactNumber:       req.ContactNumber,
		Notes:               req.Notes,
		DetailedDescription: req.DetailedDescription,
		ThreatLevel:         req.ThreatLevel,
	}
	if len(req.SpecialCharacteristics) > 0 {
		characteristics, ok := normalize.Characteristics(req.SpecialCharacteristics)
		if !ok {
			httpjson.Fail(w, http.StatusBadRequest, "specialCharacteristics must be a list or a comma-separated string")
			return
		}
		mut.SpecialCharacteristics = characteristics
		mut.HasCharacteristics = true
	}
	if len(req.Image) > 0 {
		img, err := imagedata.Normalize(req.Image, h.MaxImageMB)
		if err != nil {
			httpjson.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		mut.Image = img
		mut.HasImage = true
	}

	updated, err := h.Varieties.Update(ctx, id, mut)
	if err != nil {
		switch {
		case errors.Is(err, varietystore.ErrNotFound):
			httpjson.NotFound(w, "Variety not found")
		case errors.Is(err, varietystore.ErrDuplicateName):
			httpjson.Fail(w, http.StatusBadRequest, "Variety already exists for this crop")
		default:
			httpjson.Internal(w, h.Log, "update variety", err)
		}
		return
	}

	if req.VerificationStatus != nil && *req.VerificationStatus != updated.VerificationStatus {
		updated, err = h.Varieties.SetVerification(ctx, id, *req.VerificationStatus, caller.ID, "")
		if err != nil {
			httpjson.Internal(w, h.Log, "set verification", err)
			return
		}
	}

	refs, err := h.loadRefs(ctx, []models.Variety{updated})
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "Variety updated successfully",
		"variety": shared.FormatVariety(updated, refs),
	})
}

// Delete handles DELETE /api/varieties/{id}, detaching the record from its
// crop and contributor before removing it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Variety not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	existing, err := h.Varieties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found")
			return
		}
		httpjson.Internal(w, h.Log, "look up variety", err)
		return
	}
	if !varietypolicy.CanMutate(caller, &existing) {
		httpjson.Fail(w, http.StatusForbidden, "Not authorized to delete this variety")
		return
	}

	if err := h.Crops.PullVariety(ctx, existing.Crop, id); err != nil {
		h.Log.Warn("detach variety from crop", zap.Error(err), zap.String("variety", id.Hex()))
	}
	if err := h.Users.PullContributedVariety(ctx, existing.Contributor, id); err != nil {
		h.Log.Warn("detach variety from contributor", zap.Error(err), zap.String("variety", id.Hex()))
	}
	if err := h.Varieties.Delete(ctx, id); err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found")
			return
		}
		httpjson.Internal(w, h.Log, "delete variety", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "Variety deleted successfully",
	})
}

// AdminPending handles GET /api/varieties/admin/pending.
func (h *Handler) AdminPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Varieties.Find(ctx,
		bson.M{"verification_status": models.VerificationPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		httpjson.Internal(w, h.Log, "list pending varieties", err)
		return
	}
	refs, err := h.loadRefs(ctx, list)
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	views := make([]shared.VarietyView, 0, len(list))
	for _, v := range list {
		views = append(views, shared.FormatVariety(v, refs))
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"count":     len(views),
		"varieties": views,
	})
}

type verifyRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Verify handles PUT /api/varieties/{id}/verify (admin only). Only the
// terminal states are accepted here.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	caller, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "Variety not found")
		return
	}

	var req verifyRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	if err := varietypolicy.ValidVerifyTarget(req.Status); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, "Status must be verified or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Varieties.SetVerification(ctx, id, req.Status, caller.ID, req.Note)
	if err != nil {
		if errors.Is(err, varietystore.ErrNotFound) {
			httpjson.NotFound(w, "Variety not found")
			return
		}
		httpjson.Internal(w, h.Log, "set verification", err)
		return
	}
	refs, err := h.loadRefs(ctx, []models.Variety{updated})
	if err != nil {
		httpjson.Internal(w, h.Log, "load variety refs", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"message": "Variety " + req.Status + " successfully",
		"variety": shared.FormatVariety(updated, refs),
	})
}
