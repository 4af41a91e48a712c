package varietypolicy

import (
	"testing"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanCreateType_Farmer(t *testing.T) {
	ok, _ := CanCreateType(models.RoleFarmer, models.TypeTraditionalLandrace)
	if !ok {
		t.Fatal("farmer should be allowed to add a traditional landrace")
	}
	for _, typ := range []string{models.TypeImprovedVariety, models.TypeHybrid, models.TypeWildRelative} {
		ok, msg := CanCreateType(models.RoleFarmer, typ)
		if ok {
			t.Fatalf("farmer should not be allowed to add %s", typ)
		}
		if msg != "Farmers can only add traditional landraces" {
			t.Fatalf("unexpected denial message: %q", msg)
		}
	}
}

func TestCanCreateType_Institution(t *testing.T) {
	for _, typ := range []string{models.TypeImprovedVariety, models.TypeHybrid} {
		if ok, _ := CanCreateType(models.RoleInstitution, typ); !ok {
			t.Fatalf("institution should be allowed to add %s", typ)
		}
	}
	for _, typ := range []string{models.TypeTraditionalLandrace, models.TypeWildRelative} {
		ok, msg := CanCreateType(models.RoleInstitution, typ)
		if ok {
			t.Fatalf("institution should not be allowed to add %s", typ)
		}
		if msg != "Institutions can only add improved varieties or hybrids" {
			t.Fatalf("unexpected denial message: %q", msg)
		}
	}
}

func TestCanCreateType_Admin(t *testing.T) {
	for _, typ := range []string{
		models.TypeTraditionalLandrace,
		models.TypeImprovedVariety,
		models.TypeHybrid,
		models.TypeWildRelative,
	} {
		if ok, _ := CanCreateType(models.RoleAdmin, typ); !ok {
			t.Fatalf("admin should be allowed to add %s", typ)
		}
	}
}

func TestCanMutate(t *testing.T) {
	contributor := models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}
	other := models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	v := models.Variety{ID: primitive.NewObjectID(), Contributor: contributor.ID}

	if !CanMutate(&contributor, &v) {
		t.Fatal("contributor should be able to mutate own variety")
	}
	if CanMutate(&other, &v) {
		t.Fatal("non-contributor should not be able to mutate")
	}
	if !CanMutate(&admin, &v) {
		t.Fatal("admin should be able to mutate any variety")
	}
	if CanMutate(nil, &v) {
		t.Fatal("anonymous caller should not be able to mutate")
	}
}

func TestCanSee(t *testing.T) {
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	farmer := models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}

	pending := models.Variety{VerificationStatus: models.VerificationPending}
	verified := models.Variety{VerificationStatus: models.VerificationVerified}

	if !CanSee(&admin, &pending) {
		t.Fatal("admin should see pending varieties")
	}
	if CanSee(&farmer, &pending) {
		t.Fatal("farmer should not see pending varieties")
	}
	if CanSee(nil, &pending) {
		t.Fatal("anonymous caller should not see pending varieties")
	}
	if !CanSee(nil, &verified) {
		t.Fatal("anyone should see verified varieties")
	}
}

func TestInitialVerification(t *testing.T) {
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	status, verified, verifiedBy := InitialVerification(&admin)
	if status != models.VerificationVerified || !verified {
		t.Fatalf("admin-created variety should start verified, got %s", status)
	}
	if verifiedBy == nil || *verifiedBy != admin.ID {
		t.Fatal("admin-created variety should record the creator as verifier")
	}

	farmer := models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}
	status, verified, verifiedBy = InitialVerification(&farmer)
	if status != models.VerificationPending || verified || verifiedBy != nil {
		t.Fatalf("farmer-created variety should start pending, got %s", status)
	}
}

func TestValidVerifyTarget(t *testing.T) {
	if err := ValidVerifyTarget(models.VerificationVerified); err != nil {
		t.Fatalf("verified should be a valid target: %v", err)
	}
	if err := ValidVerifyTarget(models.VerificationRejected); err != nil {
		t.Fatalf("rejected should be a valid target: %v", err)
	}
	if err := ValidVerifyTarget(models.VerificationPending); err == nil {
		t.Fatal("pending should not be a valid verify target")
	}
	if err := ValidVerifyTarget("approved"); err == nil {
		t.Fatal("unknown status should not be a valid verify target")
	}
}

func TestVisibilityFilter(t *testing.T) {
	admin := models.User{Role: models.RoleAdmin}
	if f := VisibilityFilter(&admin); len(f) != 0 {
		t.Fatalf("admin filter should be empty, got %v", f)
	}

	farmer := models.User{Role: models.RoleFarmer}
	f := VisibilityFilter(&farmer)
	if f["verification_status"] != models.VerificationVerified {
		t.Fatalf("non-admin filter should force verified, got %v", f)
	}
	f = VisibilityFilter(nil)
	if f["verification_status"] != models.VerificationVerified {
		t.Fatalf("anonymous filter should force verified, got %v", f)
	}
}
