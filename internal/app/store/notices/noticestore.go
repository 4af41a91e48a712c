// internal/app/store/notices/noticestore.go
package noticestore

import (
	"context"
	"errors"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no notice matches the lookup.
var ErrNotFound = errors.New("notice not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

// CreateInput holds the fields for a new notice.
type CreateInput struct {
	Title     string
	Content   string
	CreatedBy primitive.ObjectID
	ExpiresAt *time.Time
}

// Create inserts a new notice, active by default.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Notice, error) {
	n := models.Notice{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Content:   in.Content,
		CreatedBy: in.CreatedBy,
		IsActive:  true,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notice{}, err
	}
	return n, nil
}

// List returns notices newest first. With activeOnly, only notices that are
// active and unexpired are returned.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Notice, error) {
	filter := bson.M{}
	if activeOnly {
		filter = activeFilter()
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notices []models.Notice
	if err := cur.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// ActiveTop returns the n most recent active notices for public display.
func (s *Store) ActiveTop(ctx context.Context, n int64) ([]models.Notice, error) {
	cur, err := s.c.Find(ctx, activeFilter(),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notices []models.Notice
	if err := cur.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// UpdateInput carries the admin-editable notice fields.
type UpdateInput struct {
	Title     *string
	Content   *string
	IsActive  *bool
	ExpiresAt *time.Time
	HasExpiry bool
}

// Update applies a selective $set and returns the updated notice.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut UpdateInput) (models.Notice, error) {
	set := bson.M{}
	if mut.Title != nil {
		set["title"] = *mut.Title
	}
	if mut.Content != nil {
		set["content"] = *mut.Content
	}
	if mut.IsActive != nil {
		set["is_active"] = *mut.IsActive
	}
	if mut.HasExpiry {
		set["expires_at"] = mut.ExpiresAt
	}
	if len(set) == 0 {
		var n models.Notice
		err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
		if err == mongo.ErrNoDocuments {
			return models.Notice{}, ErrNotFound
		}
		return n, err
	}

	var n models.Notice
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return models.Notice{}, ErrNotFound
	}
	if err != nil {
		return models.Notice{}, err
	}
	return n, nil
}

// DeactivateExpired flips is_active off for every notice whose expiry has
// passed, returning how many were touched.
func (s *Store) DeactivateExpired(ctx context.Context) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"is_active":  true,
			"expires_at": bson.M{"$ne": nil, "$lte": time.Now().UTC()},
		},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a notice.
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

func activeFilter() bson.M {
	return bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": time.Now().UTC()}},
		},
	}
}
