// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"errors"
	"net/http"
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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns registration, login, and profile handlers.
type Handler struct {
	Users     *userstore.Store
	Varieties *varietystore.Store
	Crops     *cropstore.Store
	Tokens    *authsys.TokenManager
	Log       *zap.Logger
}

// NewHandler constructs an auth Handler.
func NewHandler(db *mongo.Database, tokens *authsys.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     userstore.New(db),
		Varieties: varietystore.New(db),
		Crops:     cropstore.New(db),
		Tokens:    tokens,
		Log:       logger,
	}
}

type registerRequest struct {
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Password      string          `json:"password"`
	Role          string          `json:"role"`
	UserType      string          `json:"userType"`
	Location      models.Location `json:"location"`
	ContactNumber string          `json:"contactNumber"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}

	var errs []httpjson.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, httpjson.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, httpjson.FieldError{Field: "email", Message: "Email is required"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, httpjson.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if !models.ValidRole(req.Role) {
		errs = append(errs, httpjson.FieldError{Field: "role", Message: "Role must be farmer, institution, or admin"})
	}

	userType := req.UserType
	switch req.Role {
	case models.RoleInstitution:
		if !models.ValidUserType(models.RoleInstitution, userType) {
			errs = append(errs, httpjson.FieldError{Field: "userType", Message: "Institutions must specify a user type (public, private, ngo, seed_bank)"})
		}
	default:
		userType = models.UserTypeFarmer
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	hash, err := authsys.HashPassword(req.Password)
	if err != nil {
		httpjson.Internal(w, h.Log, "hash password", err)
		return
	}

	u := models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          req.Role,
		UserType:      userType,
		Location:      req.Location,
		ContactNumber: req.ContactNumber,
		Status:        models.StatusPending,
	}
	if req.Role == models.RoleAdmin {
		u.Status = models.StatusApproved
		u.IsApproved = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Fail(w, http.StatusBadRequest, "User already exists")
			return
		}
		httpjson.Internal(w, h.Log, "create user", err)
		return
	}

	token, err := h.Tokens.Generate(created.ID.Hex())
	if err != nil {
		httpjson.Internal(w, h.Log, "generate token", err)
		return
	}

	message := "Registration successful. Waiting for admin approval."
	if created.IsAdmin() {
		message = "Registration successful."
	}
	httpjson.OK(w, http.StatusCreated, httpjson.Payload{
		"message": message,
		"token":   token,
		"user":    shared.FormatUser(created),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}

	var errs []httpjson.FieldError
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, httpjson.FieldError{Field: "email", Message: "Email is required"})
	}
	if req.Password == "" {
		errs = append(errs, httpjson.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		httpjson.ValidationFail(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httpjson.Internal(w, h.Log, "look up user", err)
		return
	}
	if !authsys.CheckPassword(u.PasswordHash, req.Password) {
		httpjson.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !u.IsAdmin() && !u.Approved() {
		httpjson.Fail(w, http.StatusForbidden, "Your account is pending approval")
		return
	}

	token, err := h.Tokens.Generate(u.ID.Hex())
	if err != nil {
		httpjson.Internal(w, h.Log, "generate token", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"token": token,
		"user":  shared.FormatUser(u),
	})
}

// contributionView is the short contributed-variety projection on the
// profile response.
type contributionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CropName  string    `json:"cropName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile handles GET /api/auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	contributions := []contributionView{}
	if len(u.ContributedVarieties) > 0 {
		vs, err := h.Varieties.GetByIDs(ctx, u.ContributedVarieties)
		if err != nil {
			httpjson.Internal(w, h.Log, "load contributed varieties", err)
			return
		}
		cropIDs := make([]primitive.ObjectID, 0, len(vs))
		for _, v := range vs {
			cropIDs = append(cropIDs, v.Crop)
		}
		cropDocs, err := h.Crops.GetByIDs(ctx, cropIDs)
		if err != nil {
			httpjson.Internal(w, h.Log, "load crops", err)
			return
		}
		names := make(map[primitive.ObjectID]string, len(cropDocs))
		for _, c := range cropDocs {
			names[c.ID] = c.Name
		}
		for _, v := range vs {
			contributions = append(contributions, contributionView{
				ID:        v.ID.Hex(),
				Name:      v.Name,
				Type:      v.Type,
				CropName:  names[v.Crop],
				CreatedAt: v.CreatedAt,
			})
		}
	}

	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"user":                 shared.FormatUser(*u),
		"contributedVarieties": contributions,
	})
}

type profileUpdateRequest struct {
	Name          *string          `json:"name"`
	ContactNumber *string          `json:"contactNumber"`
	Location      *models.Location `json:"location"`
}

// UpdateProfile handles PUT /api/auth/profile. Only name, contact number,
// and location are self-serviceable.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := authsys.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req profileUpdateRequest
	if !httpjson.DecodeBody(w, r, &req, limits.MaxJSONBody) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		httpjson.ValidationFail(w, []httpjson.FieldError{{Field: "name", Message: "Name cannot be empty"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Users.UpdateProfile(ctx, u.ID, userstore.ProfileUpdate{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Location:      req.Location,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w, "User not found")
			return
		}
		httpjson.Internal(w, h.Log, "update profile", err)
		return
	}
	httpjson.OK(w, http.StatusOK, httpjson.Payload{
		"user": shared.FormatUser(updated),
	})
}
