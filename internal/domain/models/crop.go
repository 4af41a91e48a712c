// internal/domain/models/crop.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Crop categories (closed set).
const (
	CategoryCereal    = "cereal"
	CategoryPulse     = "pulse"
	CategoryOilseed   = "oilseed"
	CategoryVegetable = "vegetable"
	CategoryFruit     = "fruit"
	CategorySpice     = "spice"
	CategoryOther     = "other"
)

// ValidCategory reports whether c is a known crop category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryCereal, CategoryPulse, CategoryOilseed, CategoryVegetable,
		CategoryFruit, CategorySpice, CategoryOther:
		return true
	}
	return false
}

// Crop is a registered crop species. Its Varieties field holds ordered
// back-references maintained by the variety create/delete cascade.
type Crop struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	ScientificName string               `bson:"scientific_name,omitempty" json:"scientificName,omitempty"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	Category       string               `bson:"category" json:"category"`
	AddedBy        primitive.ObjectID   `bson:"added_by" json:"addedBy"`
	Varieties      []primitive.ObjectID `bson:"varieties,omitempty" json:"varieties,omitempty"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
}
