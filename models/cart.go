package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	DiscID   primitive.ObjectID `bson:"discId" json:"discId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is the single mutable cart per user. Total is denormalized: it is
// recomputed from current catalog prices on every mutation and is never
// the authoritative value; the catalog price always wins.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	Total     Money              `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (c *Cart) FindItem(discID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.DiscID == discID {
			return i
		}
	}
	return -1
}
