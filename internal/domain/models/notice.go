// internal/domain/models/notice.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is a timestamped announcement posted by an admin.
type Notice struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`
	IsActive  bool               `bson:"is_active" json:"isActive"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// ActiveAt reports whether the notice should be publicly displayed at t.
func (n *Notice) ActiveAt(t time.Time) bool {
	if !n.IsActive {
		return false
	}
	return n.ExpiresAt == nil || n.ExpiresAt.After(t)
}
