// internal/app/store/integrity/integrity.go
//
// Package integrity audits the cross-collection references the variety
// cascade maintains. The cascade is best effort, so callers (mainly tests
// and operators) use Check to detect references it left dangling.
package integrity

import (
	"context"
	"fmt"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Check scans crops and users for variety references that no longer
// resolve, and varieties whose crop is gone. It returns one human-readable
// finding per problem; an empty slice means the references are consistent.
func Check(ctx context.Context, db *mongo.Database) ([]string, error) {
	varietyIDs, err := collectIDs(ctx, db.Collection("varieties"))
	if err != nil {
		return nil, fmt.Errorf("collect variety ids: %w", err)
	}
	cropIDs, err := collectIDs(ctx, db.Collection("crops"))
	if err != nil {
		return nil, fmt.Errorf("collect crop ids: %w", err)
	}

	var findings []string

	cur, err := db.Collection("crops").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scan crops: %w", err)
	}
	var cropDocs []models.Crop
	if err := cur.All(ctx, &cropDocs); err != nil {
		return nil, fmt.Errorf("decode crops: %w", err)
	}
	for _, c := range cropDocs {
		for _, id := range c.Varieties {
			if !varietyIDs[id] {
				findings = append(findings, fmt.Sprintf("crop %s references missing variety %s", c.ID.Hex(), id.Hex()))
			}
		}
	}

	cur, err = db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	var userDocs []models.User
	if err := cur.All(ctx, &userDocs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range userDocs {
		for _, id := range u.ContributedVarieties {
			if !varietyIDs[id] {
				findings = append(findings, fmt.Sprintf("user %s references missing variety %s", u.ID.Hex(), id.Hex()))
			}
		}
	}

	cur, err = db.Collection("varieties").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("scan varieties: %w", err)
	}
	var varietyDocs []models.Variety
	if err := cur.All(ctx, &varietyDocs); err != nil {
		return nil, fmt.Errorf("decode varieties: %w", err)
	}
	for _, v := range varietyDocs {
		if !cropIDs[v.Crop] {
			findings = append(findings, fmt.Sprintf("variety %s references missing crop %s", v.ID.Hex(), v.Crop.Hex()))
		}
	}

	return findings, nil
}

func collectIDs(ctx context.Context, coll *mongo.Collection) (map[primitive.ObjectID]bool, error) {
	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]bool, len(docs))
	for _, d := range docs {
		out[d.ID] = true
	}
	return out, nil
}
