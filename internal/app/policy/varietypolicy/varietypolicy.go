// internal/app/policy/varietypolicy/varietypolicy.go
//
// Package varietypolicy owns the business rules around variety records:
// which types each role may contribute, who may mutate a record, what each
// caller is allowed to see, and which verification transitions exist.
package varietypolicy

import (
	"errors"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// permittedTypes is the role × type lookup table for variety creation.
// Admin is absent: admins may contribute any type.
var permittedTypes = map[string]map[string]struct{}{
	models.RoleFarmer: {
		models.TypeTraditionalLandrace: {},
	},
	models.RoleInstitution: {
		models.TypeImprovedVariety: {},
		models.TypeHybrid:          {},
	},
}

// typeViolationMessages name the permitted set per role, matching the
// registry's public API contract.
var typeViolationMessages = map[string]string{
	models.RoleFarmer:      "Farmers can only add traditional landraces",
	models.RoleInstitution: "Institutions can only add improved varieties or hybrids",
}

// ErrInvalidVerifyStatus rejects verify actions whose target state is not
// verified or rejected.
var ErrInvalidVerifyStatus = errors.New("invalid verification status")

// CanCreateType checks the role × type policy. The second return value is
// the caller-facing message when denied.
func CanCreateType(role, varietyType string) (bool, string) {
	if role == models.RoleAdmin {
		return true, ""
	}
	set, ok := permittedTypes[role]
	if !ok {
		return false, "User role " + role + " is not authorized to add varieties"
	}
	if _, ok := set[varietyType]; !ok {
		return false, typeViolationMessages[role]
	}
	return true, ""
}

// CanMutate reports whether the caller may update or delete the variety:
// its contributor or any admin.
func CanMutate(caller *models.User, v *models.Variety) bool {
	if caller == nil {
		return false
	}
	if caller.Role == models.RoleAdmin {
		return true
	}
	return v.Contributor == caller.ID
}

// CanSee reports whether the caller may read the variety. Admins see every
// state; everyone else only verified records.
func CanSee(caller *models.User, v *models.Variety) bool {
	if caller != nil && caller.Role == models.RoleAdmin {
		return true
	}
	return v.VerificationStatus == models.VerificationVerified
}

// InitialVerification returns the verification fields for a new variety.
// Admin-created records skip pending entirely.
func InitialVerification(creator *models.User) (status string, verified bool, verifiedBy *primitive.ObjectID) {
	if creator.Role == models.RoleAdmin {
		id := creator.ID
		return models.VerificationVerified, true, &id
	}
	return models.VerificationPending, false, nil
}

// ValidVerifyTarget checks the target state of the dedicated verify action.
// Only pending → verified and pending → rejected are modeled.
func ValidVerifyTarget(status string) error {
	if status != models.VerificationVerified && status != models.VerificationRejected {
		return ErrInvalidVerifyStatus
	}
	return nil
}

// VisibilityFilter restricts a listing query to what the caller may see.
// The returned map is the filter the caller should merge into its query;
// admins get no restriction.
func VisibilityFilter(caller *models.User) bson.M {
	if caller != nil && caller.Role == models.RoleAdmin {
		return bson.M{}
	}
	return bson.M{"verification_status": models.VerificationVerified}
}
