// internal/app/features/shared/render.go
//
// Package shared holds the response shapes used by more than one feature:
// user/variety/crop projections and the embedded reference summaries that
// stand in for the original registry's populated documents.
package shared

import (
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/imagedata"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserView is the caller-facing projection of an account. The password hash
// never appears here.
type UserView struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	UserType      string          `json:"userType"`
	ContactNumber string          `json:"contactNumber"`
	Location      models.Location `json:"location"`
	IsApproved    bool            `json:"isApproved"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FormatUser projects an account for responses.
func FormatUser(u models.User) UserView {
	return UserView{
		ID:            u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		UserType:      u.UserType,
		ContactNumber: u.ContactNumber,
		Location:      u.Location,
		IsApproved:    u.IsApproved,
		Status:        u.Status,
		CreatedAt:     u.CreatedAt,
	}
}

// CropRef is the crop summary embedded in variety responses.
type CropRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientificName,omitempty"`
	Category       string `json:"category,omitempty"`
}

// ContributorRef is the account summary embedded in variety responses.
type ContributorRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType,omitempty"`
}

// VarietyView is the authenticated-API projection of a variety. Image is
// rendered as a single data-URL string; crop and contributor carry embedded
// summaries when the handler expands them.
type VarietyView struct {
	ID                     string          `json:"id"`
	Crop                   any             `json:"crop"`
	Name                   string          `json:"name"`
	Type                   string          `json:"type"`
	GermplasmType          string          `json:"germplasmType"`
	Contributor            any             `json:"contributor"`
	Location               models.Location `json:"location"`
	ContactNumber          string          `json:"contactNumber,omitempty"`
	SpecialCharacteristics []string        `json:"specialCharacteristics"`
	Notes                  string          `json:"notes,omitempty"`
	DetailedDescription    string          `json:"detailedDescription,omitempty"`
	Image                  *string         `json:"image"`
	ThreatLevel            string          `json:"threatLevel"`
	IsVerified             bool            `json:"isVerified"`
	VerificationStatus     string          `json:"verificationStatus"`
	VerifiedBy             string          `json:"verifiedBy,omitempty"`
	VerificationDate       *time.Time      `json:"verificationDate,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// PublicVarietyView is the public projection: the verification-internal
// fields (status, verifier, date) are stripped.
type PublicVarietyView struct {
	ID                     string          `json:"id"`
	Crop                   any             `json:"crop"`
	Name                   string          `json:"name"`
	Type                   string          `json:"type"`
	GermplasmType          string          `json:"germplasmType"`
	Contributor            any             `json:"contributor"`
	Location               models.Location `json:"location"`
	SpecialCharacteristics []string        `json:"specialCharacteristics"`
	Notes                  string          `json:"notes,omitempty"`
	DetailedDescription    string          `json:"detailedDescription,omitempty"`
	Image                  *string         `json:"image"`
	ThreatLevel            string          `json:"threatLevel"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// Refs resolves crop and contributor references for a set of varieties.
type Refs struct {
	Crops        map[primitive.ObjectID]CropRef
	Contributors map[primitive.ObjectID]ContributorRef
}

// CropRefs builds a lookup from a slice of crops.
func CropRefs(crops []models.Crop) map[primitive.ObjectID]CropRef {
	out := make(map[primitive.ObjectID]CropRef, len(crops))
	for _, c := range crops {
		out[c.ID] = CropRef{
			ID:             c.ID.Hex(),
			Name:           c.Name,
			ScientificName: c.ScientificName,
			Category:       c.Category,
		}
	}
	return out
}

// ContributorRefs builds a lookup from a slice of accounts.
func ContributorRefs(users []models.User) map[primitive.ObjectID]ContributorRef {
	out := make(map[primitive.ObjectID]ContributorRef, len(users))
	for _, u := range users {
		out[u.ID] = ContributorRef{
			ID:       u.ID.Hex(),
			Name:     u.Name,
			Email:    u.Email,
			UserType: u.UserType,
		}
	}
	return out
}

// FormatVariety projects a variety for the authenticated API. refs may be
// nil, in which case crop and contributor render as bare hex ids.
func FormatVariety(v models.Variety, refs *Refs) VarietyView {
	view := VarietyView{
		ID:                     v.ID.Hex(),
		Crop:                   refValue(v.Crop, refs, true),
		Name:                   v.Name,
		Type:                   v.Type,
		GermplasmType:          v.GermplasmType,
		Contributor:            refValue(v.Contributor, refs, false),
		Location:               v.Location,
		ContactNumber:          v.ContactNumber,
		SpecialCharacteristics: v.SpecialCharacteristics,
		Notes:                  v.Notes,
		DetailedDescription:    v.DetailedDescription,
		Image:                  imageField(v.Image),
		ThreatLevel:            v.ThreatLevel,
		IsVerified:             v.IsVerified,
		VerificationStatus:     v.VerificationStatus,
		VerificationDate:       v.VerificationDate,
		CreatedAt:              v.CreatedAt,
	}
	if v.VerifiedBy != nil {
		view.VerifiedBy = v.VerifiedBy.Hex()
	}
	return view
}

// FormatPublicVariety projects a variety for the public API.
func FormatPublicVariety(v models.Variety, refs *Refs) PublicVarietyView {
	return PublicVarietyView{
		ID:                     v.ID.Hex(),
		Crop:                   refValue(v.Crop, refs, true),
		Name:                   v.Name,
		Type:                   v.Type,
		GermplasmType:          v.GermplasmType,
		Contributor:            refValue(v.Contributor, refs, false),
		Location:               v.Location,
		SpecialCharacteristics: v.SpecialCharacteristics,
		Notes:                  v.Notes,
		DetailedDescription:    v.DetailedDescription,
		Image:                  imageField(v.Image),
		ThreatLevel:            v.ThreatLevel,
		CreatedAt:              v.CreatedAt,
	}
}

// VarietySummary is the short form embedded in crop listings.
type VarietySummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	GermplasmType string    `json:"germplasmType"`
	ThreatLevel   string    `json:"threatLevel"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SummarizeVariety builds the short embedded form.
func SummarizeVariety(v models.Variety) VarietySummary {
	return VarietySummary{
		ID:            v.ID.Hex(),
		Name:          v.Name,
		Type:          v.Type,
		GermplasmType: v.GermplasmType,
		ThreatLevel:   v.ThreatLevel,
		CreatedAt:     v.CreatedAt,
	}
}

func refValue(id primitive.ObjectID, refs *Refs, crop bool) any {
	if refs != nil {
		if crop {
			if ref, ok := refs.Crops[id]; ok {
				return ref
			}
		} else {
			if ref, ok := refs.Contributors[id]; ok {
				return ref
			}
		}
	}
	return id.Hex()
}

func imageField(img *models.Image) *string {
	if img == nil {
		return nil
	}
	s := imagedata.DataURL(img)
	if s == "" {
		return nil
	}
	return &s
}
