// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Index creation is idempotent; problems are
// aggregated so startup can fail fast with everything that is wrong.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCrops(ctx, db); err != nil {
		problems = append(problems, "crops: "+err.Error())
	}
	if err := ensureVarieties(ctx, db); err != nil {
		problems = append(problems, "varieties: "+err.Error())
	}
	if err := ensureNotices(ctx, db); err != nil {
		problems = append(problems, "notices: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("role_status"),
		},
	})
	return err
}

func ensureCrops(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("crops").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("category"),
		},
	})
	return err
}

func ensureVarieties(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("varieties").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "crop", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_crop_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verification_status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("verification_created"),
		},
		{
			Keys:    bson.D{{Key: "contributor", Value: 1}},
			Options: options.Index().SetName("contributor"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "special_characteristics", Value: "text"},
				{Key: "notes", Value: "text"},
			},
			Options: options.Index().SetName("search_text"),
		},
	})
	return err
}

func ensureNotices(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notices").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("active_created"),
		},
	})
	return err
}
