package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusPickingUp  OrderStatus = "PickingUp"
	StatusPreparing  OrderStatus = "Preparing"
	StatusDelivering OrderStatus = "Delivering"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var statusRank = map[OrderStatus]int{
	StatusConfirmed:  0,
	StatusPickingUp:  1,
	StatusPreparing:  2,
	StatusDelivering: 3,
	StatusDelivered:  4,
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo enforces the linear lifecycle: status only moves forward
// through the fulfillment sequence, except Cancelled which is reachable
// from any non-terminal state. Terminal states accept nothing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return false
	}
	return nextRank > statusRank[s]
}

type PaymentMethod string

const (
	PaymentStripe PaymentMethod = "Stripe"
	PaymentMoMo   PaymentMethod = "MoMo"
	PaymentCOD    PaymentMethod = "Cash on Delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentStripe, PaymentMoMo, PaymentCOD:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// StatusEvent is one entry of the append-only fulfillment audit log.
type StatusEvent struct {
	Status      OrderStatus `bson:"status" json:"status"`
	Timestamp   time.Time   `bson:"timestamp" json:"timestamp"`
	Description string      `bson:"description" json:"description"`
}

// OrderItem is a frozen copy of catalog data taken at order time. The
// order never re-reads the catalog, so later price changes cannot touch it.
type OrderItem struct {
	DiscID   primitive.ObjectID `bson:"discId" json:"discId"`
	Name     string             `bson:"name" json:"name"`
	Price    Money              `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID `bson:"userId" json:"userId"`
	Items                 []OrderItem        `bson:"items" json:"items"`
	TotalPrice            Money              `bson:"totalPrice" json:"totalPrice"`
	Address               string             `bson:"address" json:"address"`
	Status                OrderStatus        `bson:"status" json:"status"`
	PaymentMethod         PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus         PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	DeliveryFee           Money              `bson:"deliveryFee" json:"deliveryFee"`
	EstimatedDeliveryTime string             `bson:"estimatedDeliveryTime" json:"estimatedDeliveryTime"`
	ShipperID             primitive.ObjectID `bson:"shipperId,omitempty" json:"shipperId,omitempty"`
	StatusHistory         []StatusEvent      `bson:"statusHistory" json:"statusHistory"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
}
