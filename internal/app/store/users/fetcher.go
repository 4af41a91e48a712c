// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/timeouts"
	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher implements auth.UserFetcher, loading a fresh account on every
// protected request so role and approval changes apply immediately.
type Fetcher struct {
	c *mongo.Collection
}

// NewFetcher creates a Fetcher over the users collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{c: db.Collection("users")}
}

// FetchUser returns nil for a malformed id, a missing account, or any
// lookup error; the middleware treats nil as an auth failure.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *models.User {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	if err := f.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil
	}
	return &u
}
