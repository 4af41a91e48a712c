// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/normalize"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("a user with this email already exists")

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new account, normalizing the email and stamping
// created_at. The caller decides role, approval state, and password hash.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	u.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail returns the account for an email, including the password hash.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByID returns the account for an id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate carries the self-service profile fields. Role and email are
// immutable after registration.
type ProfileUpdate struct {
	Name          *string
	ContactNumber *string
	Location      *models.Location
}

// UpdateProfile applies a selective $set of the owner-editable fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, mut ProfileUpdate) (models.User, error) {
	set := bson.M{}
	if mut.Name != nil {
		set["name"] = normalize.Name(*mut.Name)
	}
	if mut.ContactNumber != nil {
		set["contact_number"] = *mut.ContactNumber
	}
	if mut.Location != nil {
		set["location"] = *mut.Location
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SetApproval writes the status/is_approved pair together.
func (s *Store) SetApproval(ctx context.Context, id primitive.ObjectID, status string, approved bool) (models.User, error) {
	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "is_approved": approved}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Delete removes an account. Returns ErrNotFound for a missing id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Find returns accounts matching the filter, sorted by creation time.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByIDs returns multiple accounts by their ids.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of accounts matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// PushContributedVariety appends a variety back-reference.
func (s *Store) PushContributedVariety(ctx context.Context, userID, varietyID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"contributed_varieties": varietyID}})
	return err
}

// PullContributedVariety removes a variety back-reference.
func (s *Store) PullContributedVariety(ctx context.Context, userID, varietyID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"contributed_varieties": varietyID}})
	return err
}
