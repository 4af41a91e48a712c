// internal/app/store/crops/cropstore.go
package cropstore

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

// ErrDuplicateName is returned when a crop with the name already exists.
var ErrDuplicateName = errors.New("a crop with this name already exists")

// ErrNotFound is returned when no crop matches the lookup.
var ErrNotFound = errors.New("crop not found")

// ErrHasVarieties blocks deletion of a crop that still owns varieties.
var ErrHasVarieties = errors.New("crop has existing varieties")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("crops")}
}

// Create inserts a new crop, defaulting the category to "other".
func (s *Store) Create(ctx context.Context, crop models.Crop) (models.Crop, error) {
	crop.ID = primitive.NewObjectID()
	if crop.Category == "" {
		crop.Category = models.CategoryOther
	}
	crop.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, crop); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Crop{}, ErrDuplicateName
		}
		return models.Crop{}, err
	}
	return crop, nil
}

// GetByID returns a crop by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Crop, error) {
	var crop models.Crop
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&crop)
	if err == mongo.ErrNoDocuments {
		return models.Crop{}, ErrNotFound
	}
	if err != nil {
		return models.Crop{}, err
	}
	return crop, nil
}

// Find returns crops matching the filter, newest first.
func (s *Store) Find(ctx context.Context, filter bson.M) ([]models.Crop, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var crops []models.Crop
	if err := cur.All(ctx, &crops); err != nil {
		return nil, err
	}
	return crops, nil
}

// Update carries the admin-editable crop fields.
type Update struct {
	Name           *string
	ScientificName *string
	Description    *string
	Category       *string
}

// Update applies a selective $set and returns the updated crop.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut Update) (models.Crop, error) {
	set := bson.M{}
	if mut.Name != nil {
		set["name"] = *mut.Name
	}
	if mut.ScientificName != nil {
		set["scientific_name"] = *mut.ScientificName
	}
	if mut.Description != nil {
		set["description"] = *mut.Description
	}
	if mut.Category != nil {
		set["category"] = *mut.Category
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	var crop models.Crop
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&crop)
	if err == mongo.ErrNoDocuments {
		return models.Crop{}, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Crop{}, ErrDuplicateName
		}
		return models.Crop{}, err
	}
	return crop, nil
}

// Delete removes a crop only while its variety list is empty.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	crop, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if len(crop.Varieties) > 0 {
		return ErrHasVarieties
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByIDs returns multiple crops by their ids.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Crop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var crops []models.Crop
	if err := cur.All(ctx, &crops); err != nil {
		return nil, err
	}
	return crops, nil
}

// Count returns the number of crops matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// PushVariety appends a variety back-reference to the crop's ordered list.
func (s *Store) PushVariety(ctx context.Context, cropID, varietyID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, cropID, bson.M{"$push": bson.M{"varieties": varietyID}})
	return err
}

// PullVariety removes a variety back-reference.
func (s *Store) PullVariety(ctx context.Context, cropID, varietyID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, cropID, bson.M{"$pull": bson.M{"varieties": varietyID}})
	return err
}
