package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DeliveryFee is one row of the static district fee table. Read-only from
// the order pipeline's perspective.
type DeliveryFee struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ToDistrict   string             `bson:"toDistrict" json:"toDistrict"`
	FromDistrict string             `bson:"fromDistrict" json:"fromDistrict"`
	Fee          Money              `bson:"deliveryFee" json:"deliveryFee"`
}

type Shipper struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Phone string             `bson:"phone" json:"phone"`
}
