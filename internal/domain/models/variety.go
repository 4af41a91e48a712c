// internal/domain/models/variety.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variety types.
const (
	TypeTraditionalLandrace = "traditional_landrace"
	TypeImprovedVariety     = "improved_variety"
	TypeHybrid              = "hybrid"
	TypeWildRelative        = "wild_relative"
)

// Germplasm categories (plural form of the variety types, as the original
// registry recorded them).
const (
	GermplasmTraditionalLandraces = "traditional_landraces"
	GermplasmImprovedVarieties    = "improved_varieties"
	GermplasmHybrids              = "hybrids"
	GermplasmWildRelatives        = "wild_relatives"
)

// Threat levels.
const (
	ThreatCriticallyEndangered = "critically_endangered"
	ThreatEndangered           = "endangered"
	ThreatVulnerable           = "vulnerable"
	ThreatNotThreatened        = "not_threatened"
)

// Verification states.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ValidVarietyType reports whether t is a known variety type.
func ValidVarietyType(t string) bool {
	switch t {
	case TypeTraditionalLandrace, TypeImprovedVariety, TypeHybrid, TypeWildRelative:
		return true
	}
	return false
}

// ValidGermplasmType reports whether g is a known germplasm category.
func ValidGermplasmType(g string) bool {
	switch g {
	case GermplasmTraditionalLandraces, GermplasmImprovedVarieties,
		GermplasmHybrids, GermplasmWildRelatives:
		return true
	}
	return false
}

// ValidThreatLevel reports whether l is a known threat level.
func ValidThreatLevel(l string) bool {
	switch l {
	case ThreatCriticallyEndangered, ThreatEndangered, ThreatVulnerable, ThreatNotThreatened:
		return true
	}
	return false
}

// ValidVerificationStatus reports whether s is a known verification state.
func ValidVerificationStatus(s string) bool {
	return s == VerificationPending || s == VerificationVerified || s == VerificationRejected
}

// Image is the canonical stored form of a variety photo: base64 payload plus
// declared content type. Incoming shapes (bare base64, data URL, structured
// object) are normalized before reaching the store.
type Image struct {
	Data        string `bson:"data" json:"data"`
	ContentType string `bson:"content_type" json:"contentType"`
}

// Variety is a germplasm record contributed against a crop.
//
// Invariant: IsVerified mirrors VerificationStatus == "verified" at all
// times; the verification fields (status, flag, verifier, date) are written
// together in a single document update.
type Variety struct {
	ID                     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Crop                   primitive.ObjectID  `bson:"crop" json:"crop"`
	Name                   string              `bson:"name" json:"name"`
	Type                   string              `bson:"type" json:"type"`
	GermplasmType          string              `bson:"germplasm_type" json:"germplasmType"`
	Contributor            primitive.ObjectID  `bson:"contributor" json:"contributor"`
	Location               Location            `bson:"location,omitempty" json:"location"`
	ContactNumber          string              `bson:"contact_number,omitempty" json:"contactNumber,omitempty"`
	SpecialCharacteristics []string            `bson:"special_characteristics,omitempty" json:"specialCharacteristics"`
	Notes                  string              `bson:"notes,omitempty" json:"notes,omitempty"`
	DetailedDescription    string              `bson:"detailed_description,omitempty" json:"detailedDescription,omitempty"`
	Image                  *Image              `bson:"image,omitempty" json:"-"`
	ThreatLevel            string              `bson:"threat_level" json:"threatLevel"`
	IsVerified             bool                `bson:"is_verified" json:"isVerified"`
	VerificationStatus     string              `bson:"verification_status" json:"verificationStatus"`
	VerifiedBy             *primitive.ObjectID `bson:"verified_by,omitempty" json:"verifiedBy,omitempty"`
	VerificationDate       *time.Time          `bson:"verification_date,omitempty" json:"verificationDate,omitempty"`
	CreatedAt              time.Time           `bson:"created_at" json:"createdAt"`
}
