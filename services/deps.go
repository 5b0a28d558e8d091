package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recordstore/models"
)

// Store interfaces consumed by the services. The mongo repositories
// satisfy them; tests swap in in-memory fakes.

type CartStore interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

type Catalog interface {
	GetDisc(ctx context.Context, id primitive.ObjectID) (*models.Disc, error)
	ListDiscs(ctx context.Context) ([]models.Disc, error)
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, current, next models.OrderStatus, event models.StatusEvent) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Order, error)
}

type FeeStore interface {
	GetByDistrict(ctx context.Context, district string) (*models.DeliveryFee, error)
	List(ctx context.Context) ([]models.DeliveryFee, error)
}

type ShipperStore interface {
	Random(ctx context.Context) (*models.Shipper, error)
	List(ctx context.Context) ([]models.Shipper, error)
}

// FeeResolver and Estimator are the two address-derived inputs of order
// assembly. Both are best-effort: they degrade, they never fail checkout.
type FeeResolver interface {
	ResolveFee(ctx context.Context, address string) models.Money
}

type Estimator interface {
	Estimate(ctx context.Context, address string) string
}
