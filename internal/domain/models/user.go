// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles for registry accounts.
const (
	RoleFarmer      = "farmer"
	RoleInstitution = "institution"
	RoleAdmin       = "admin"
)

// Account approval states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Institution sub-categories. Farmers always carry UserTypeFarmer.
const (
	UserTypeFarmer   = "farmer"
	UserTypePublic   = "public"
	UserTypePrivate  = "private"
	UserTypeNGO      = "ngo"
	UserTypeSeedBank = "seed_bank"
)

// ValidRole reports whether r is a known account role.
func ValidRole(r string) bool {
	return r == RoleFarmer || r == RoleInstitution || r == RoleAdmin
}

// ValidStatus reports whether s is a known approval state.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ValidUserType reports whether t is a permitted sub-category for the role.
func ValidUserType(role, t string) bool {
	switch role {
	case RoleInstitution:
		return t == UserTypePublic || t == UserTypePrivate || t == UserTypeNGO || t == UserTypeSeedBank
	default:
		return t == UserTypeFarmer
	}
}

// Location is the place a contributor or variety is associated with.
type Location struct {
	Village     string       `bson:"village,omitempty" json:"village,omitempty"`
	District    string       `bson:"district,omitempty" json:"district,omitempty"`
	State       string       `bson:"state,omitempty" json:"state,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Coordinates is an optional lat/lng pair.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// User represents farmers, institutions, and admins.
//
// PasswordHash never leaves the server; it is excluded from JSON and only
// selected from the users collection when authenticating.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role"`
	UserType      string             `bson:"user_type" json:"userType"`
	Location      Location           `bson:"location,omitempty" json:"location"`
	ContactNumber string             `bson:"contact_number,omitempty" json:"contactNumber"`
	IsApproved    bool               `bson:"is_approved" json:"isApproved"`
	Status        string             `bson:"status" json:"status"`

	// ContributedVarieties is a back-reference list maintained by the
	// variety create/delete cascade, not an ownership relation.
	ContributedVarieties []primitive.ObjectID `bson:"contributed_varieties,omitempty" json:"contributedVarieties,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Approved reports whether the account may use protected routes.
// Admins are always eligible.
func (u *User) Approved() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.IsApproved && u.Status == StatusApproved
}
