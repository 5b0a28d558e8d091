package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Disc is a catalog item. Price and stock are mutable at any time (the
// scraper rewrites them on every run); carts therefore never store a
// price, only a disc id.
type Disc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Artist    string             `bson:"artist,omitempty" json:"artist,omitempty"`
	Price     Money              `bson:"price" json:"price"`
	Stock     int                `bson:"stock" json:"stock"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}
