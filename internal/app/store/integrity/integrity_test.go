package integrity_test

import (
	"testing"

	"github.com/AfrozSheikh/krushivarsa/internal/app/store/integrity"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/AfrozSheikh/krushivarsa/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCheck_CleanDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	farmer := fixtures.ApprovedFarmer()
	crop := fixtures.Crop("Rice", fixtures.Admin().ID)
	v := fixtures.Variety(crop.ID, farmer.ID, "Ambemohar", models.VerificationVerified)

	if _, err := db.Collection("crops").UpdateByID(ctx, crop.ID,
		bson.M{"$push": bson.M{"varieties": v.ID}}); err != nil {
		t.Fatalf("push crop back-reference: %v", err)
	}
	if _, err := db.Collection("users").UpdateByID(ctx, farmer.ID,
		bson.M{"$push": bson.M{"contributed_varieties": v.ID}}); err != nil {
		t.Fatalf("push user back-reference: %v", err)
	}

	problems, err := integrity.Check(ctx, db)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestCheck_ReportsDanglingReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	farmer := fixtures.ApprovedFarmer()
	crop := fixtures.Crop("Rice", fixtures.Admin().ID)
	missing := primitive.NewObjectID()

	if _, err := db.Collection("crops").UpdateByID(ctx, crop.ID,
		bson.M{"$push": bson.M{"varieties": missing}}); err != nil {
		t.Fatalf("push crop back-reference: %v", err)
	}
	if _, err := db.Collection("users").UpdateByID(ctx, farmer.ID,
		bson.M{"$push": bson.M{"contributed_varieties": missing}}); err != nil {
		t.Fatalf("push user back-reference: %v", err)
	}

	problems, err := integrity.Check(ctx, db)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(problems) != 2 {
		t.Errorf("expected 2 problems, got %v", problems)
	}
}

func TestCheck_ReportsVarietyWithMissingCrop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	farmer := fixtures.ApprovedFarmer()
	fixtures.Variety(primitive.NewObjectID(), farmer.ID, "Orphan", models.VerificationVerified)

	problems, err := integrity.Check(ctx, db)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(problems) != 1 {
		t.Errorf("expected 1 problem, got %v", problems)
	}
}
