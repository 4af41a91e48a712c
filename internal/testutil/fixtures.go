package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

// User inserts a user document and returns it with its assigned id.
func (f *Fixtures) User(role, status string, approved bool) models.User {
	f.t.Helper()
	n := f.next()
	u := models.User{
		ID:            primitive.NewObjectID(),
		Name:          fmt.Sprintf("Test User %d", n),
		Email:         fmt.Sprintf("user%d@test.local", n),
		PasswordHash:  "$2a$10$0000000000000000000000000000000000000000000000000000",
		Role:          role,
		UserType:      models.UserTypeFarmer,
		Location:      models.Location{Village: "Vadgaon", District: "Pune", State: "Maharashtra"},
		ContactNumber: "9000000000",
		IsApproved:    approved,
		Status:        status,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert("users", u)
	return u
}

// Admin inserts an approved admin user.
func (f *Fixtures) Admin() models.User {
	return f.User(models.RoleAdmin, models.StatusApproved, true)
}

// ApprovedFarmer inserts an approved farmer.
func (f *Fixtures) ApprovedFarmer() models.User {
	return f.User(models.RoleFarmer, models.StatusApproved, true)
}

// ApprovedInstitution inserts an approved institution.
func (f *Fixtures) ApprovedInstitution() models.User {
	return f.User(models.RoleInstitution, models.StatusApproved, true)
}

// Crop inserts a crop document.
func (f *Fixtures) Crop(name string, addedBy primitive.ObjectID) models.Crop {
	f.t.Helper()
	c := models.Crop{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Category:  models.CategoryCereal,
		AddedBy:   addedBy,
		Varieties: []primitive.ObjectID{},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert("crops", c)
	return c
}

// Variety inserts a variety document in the given verification state.
func (f *Fixtures) Variety(crop, contributor primitive.ObjectID, name, status string) models.Variety {
	f.t.Helper()
	v := models.Variety{
		ID:                 primitive.NewObjectID(),
		Crop:               crop,
		Name:               name,
		Type:               models.TypeTraditionalLandrace,
		GermplasmType:      models.GermplasmTraditionalLandraces,
		Contributor:        contributor,
		Location:           models.Location{Village: "Vadgaon", District: "Pune", State: "Maharashtra"},
		ThreatLevel:        models.ThreatNotThreatened,
		IsVerified:         status == models.VerificationVerified,
		VerificationStatus: status,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert("varieties", v)
	return v
}

// Notice inserts a notice document.
func (f *Fixtures) Notice(createdBy primitive.ObjectID, active bool, expiresAt *time.Time) models.Notice {
	f.t.Helper()
	n := models.Notice{
		ID:        primitive.NewObjectID(),
		Title:     fmt.Sprintf("Notice %d", f.next()),
		Content:   "Seed distribution schedule",
		CreatedBy: createdBy,
		IsActive:  active,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	f.insert("notices", n)
	return n
}

func (f *Fixtures) insert(collection string, doc any) {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert %s fixture: %v", collection, err)
	}
}
