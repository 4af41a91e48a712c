// internal/app/store/varieties/varietystore.go
package varietystore

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

// ErrDuplicateName is returned when the (crop, name) pair already exists.
var ErrDuplicateName = errors.New("variety already exists for this crop")

// ErrNotFound is returned when no variety matches the lookup.
var ErrNotFound = errors.New("variety not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("varieties")}
}

// Create inserts a new variety. The unique (crop, name) index makes the
// first writer win; later writers get ErrDuplicateName.
func (s *Store) Create(ctx context.Context, v models.Variety) (models.Variety, error) {
	v.ID = primitive.NewObjectID()
	if v.ThreatLevel == "" {
		v.ThreatLevel = models.ThreatNotThreatened
	}
	v.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Variety{}, ErrDuplicateName
		}
		return models.Variety{}, err
	}
	return v, nil
}

// GetByID returns a variety by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Variety, error) {
	var v models.Variety
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Variety{}, ErrNotFound
	}
	if err != nil {
		return models.Variety{}, err
	}
	return v, nil
}

// Find returns varieties matching the filter with the given options.
// Callers build the filter (including the caller-visibility restriction)
// and pagination.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Variety, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var varieties []models.Variety
	if err := cur.All(ctx, &varieties); err != nil {
		return nil, err
	}
	return varieties, nil
}

// GetByIDs returns multiple varieties by their ids.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Variety, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var varieties []models.Variety
	if err := cur.All(ctx, &varieties); err != nil {
		return nil, err
	}
	return varieties, nil
}

// Count returns the number of varieties matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Update carries the contributor/admin-editable fields. Verification fields
// are written only through SetVerification.
type Update struct {
	Name                   *string
	Type                   *string
	GermplasmType          *string
	Location               *models.Location
	ContactNumber          *string
	SpecialCharacteristics []string
	HasCharacteristics     bool
	Notes                  *string
	DetailedDescription    *string
	Image                  *models.Image
	HasImage               bool
	ThreatLevel            *string
}

// Update applies a selective $set and returns the updated variety.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut Update) (models.Variety, error) {
	set := bson.M{}
	if mut.Name != nil {
		set["name"] = *mut.Name
	}
	if mut.Type != nil {
		set["type"] = *mut.Type
	}
	if mut.GermplasmType != nil {
		set["germplasm_type"] = *mut.GermplasmType
	}
	if mut.Location != nil {
		set["location"] = *mut.Location
	}
	if mut.ContactNumber != nil {
		set["contact_number"] = *mut.ContactNumber
	}
	if mut.HasCharacteristics {
		set["special_characteristics"] = mut.SpecialCharacteristics
	}
	if mut.Notes != nil {
		set["notes"] = *mut.Notes
	}
	if mut.DetailedDescription != nil {
		set["detailed_description"] = *mut.DetailedDescription
	}
	if mut.HasImage {
		set["image"] = mut.Image
	}
	if mut.ThreatLevel != nil {
		set["threat_level"] = *mut.ThreatLevel
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	var v models.Variety
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Variety{}, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Variety{}, ErrDuplicateName
		}
		return models.Variety{}, err
	}
	return v, nil
}

// SetVerification writes the whole verification field group (status,
// mirrored flag, verifier, date) in one document update so the group can never
// be observed half-applied. If note is non-empty it is appended to notes as
// a tagged line, never overwriting prior notes.
func (s *Store) SetVerification(ctx context.Context, id primitive.ObjectID, status string, verifiedBy primitive.ObjectID, note string) (models.Variety, error) {
	set := bson.M{
		"verification_status": status,
		"is_verified":         status == models.VerificationVerified,
		"verified_by":         verifiedBy,
		"verification_date":   time.Now().UTC(),
	}

	if note != "" {
		existing, err := s.GetByID(ctx, id)
		if err != nil {
			return models.Variety{}, err
		}
		tagged := "[Verification Note: " + note + "]"
		if existing.Notes != "" {
			tagged = existing.Notes + "\n" + tagged
		}
		set["notes"] = tagged
	}

	var v models.Variety
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Variety{}, ErrNotFound
	}
	if err != nil {
		return models.Variety{}, err
	}
	return v, nil
}

// Delete removes a variety document.
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

// GroupCounts aggregates the number of varieties per distinct value of the
// given field, over documents matching match.
func (s *Store) GroupCounts(ctx context.Context, field string, match bson.M) (map[string]int64, error) {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$" + field,
		"count": bson.M{"$sum": 1},
	}}})

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}
