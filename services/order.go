package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"recordstore/cache"
	"recordstore/models"
	"recordstore/repository"
)

// OrderService converts carts into immutable orders and manages the
// status lifecycle afterwards.
type OrderService struct {
	orders   OrderStore
	carts    CartStore
	catalog  Catalog
	fees     FeeResolver
	eta      Estimator
	shippers ShipperStore
	accessor *cache.Accessor
	logger   *zap.Logger
}

func NewOrderService(orders OrderStore, carts CartStore, catalog Catalog, fees FeeResolver, eta Estimator, shippers ShipperStore, accessor *cache.Accessor, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		catalog:  catalog,
		fees:     fees,
		eta:      eta,
		shippers: shippers,
		accessor: accessor,
		logger:   logger,
	}
}

// CreateOrder snapshots the user's cart into an immutable order. All
// validation happens before any write; the cart is deleted only after the
// order has been persisted, so a failed persist leaves the cart intact
// for a retry.
func (s *OrderService) CreateOrder(ctx context.Context, userID, address string, paymentMethod string) (*models.Order, error) {
	pm := models.PaymentMethod(paymentMethod)
	if !pm.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	cart, err := s.carts.GetByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.snapshotItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	deliveryFee := s.fees.ResolveFee(ctx, address)
	estimate := s.eta.Estimate(ctx, address)

	var total models.Money
	for _, item := range items {
		total += item.Price * models.Money(item.Quantity)
	}
	total += deliveryFee

	paymentStatus := models.PaymentCompleted
	if pm == models.PaymentCOD {
		paymentStatus = models.PaymentPending
	}

	now := time.Now()
	order := &models.Order{
		ID:                    primitive.NewObjectID(),
		UserID:                uid,
		Items:                 items,
		TotalPrice:            total,
		Address:               address,
		Status:                models.StatusConfirmed,
		PaymentMethod:         pm,
		PaymentStatus:         paymentStatus,
		DeliveryFee:           deliveryFee,
		EstimatedDeliveryTime: estimate,
		StatusHistory: []models.StatusEvent{{
			Status:      models.StatusConfirmed,
			Timestamp:   now,
			Description: "Order confirmed",
		}},
		CreatedAt: now,
	}

	if shipper, err := s.shippers.Random(ctx); err != nil {
		// Delivery still happens, just unassigned; dispatch can fix it up.
		s.logger.Warn("could not assign shipper", zap.Error(err))
	} else {
		order.ShipperID = shipper.ID
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}

	// Cart and order are mutually exclusive from here on. A failed cart
	// delete is logged, not surfaced: the order already exists.
	if err := s.carts.Delete(ctx, uid); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Error("failed to delete cart after checkout",
			zap.String("userId", userID), zap.Error(err))
	}
	s.accessor.Invalidate(ctx, cache.CartKey(userID))

	return order, nil
}

// snapshotItems copies current catalog name and price into owned order
// lines, decoupling the order permanently from future catalog changes. A
// disc that has vanished between carting and checkout is kept as a
// zero-price placeholder line, matching what the storefront displays.
func (s *OrderService) snapshotItems(ctx context.Context, cart *models.Cart) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		item := models.OrderItem{
			DiscID:   line.DiscID,
			Name:     "Disc",
			Quantity: line.Quantity,
		}

		disc, err := s.catalog.GetDisc(ctx, line.DiscID)
		if err != nil {
			if !errors.Is(err, repository.ErrDiscNotFound) {
				return nil, err
			}
			s.logger.Warn("ordered disc missing from catalog",
				zap.String("discId", line.DiscID.Hex()))
		} else {
			item.Name = disc.Name
			item.Price = disc.Price
		}

		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	return s.orders.ListByUser(ctx, uid)
}

// UpdateStatus moves an order forward through the fulfillment sequence
// (or cancels it) and appends to the status history. When a cash order is
// delivered, its pending payment completes with it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next models.OrderStatus, note string) (*models.Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if note == "" {
		note = fmt.Sprintf("Status updated to %s", next)
	}
	event := models.StatusEvent{Status: next, Timestamp: time.Now(), Description: note}

	updated, err := s.orders.UpdateStatus(ctx, id, order.Status, next, event)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			// The guarded update missed: someone else transitioned first.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	if next == models.StatusDelivered &&
		updated.PaymentMethod == models.PaymentCOD &&
		updated.PaymentStatus == models.PaymentPending {
		if updated, err = s.orders.UpdatePaymentStatus(ctx, id, models.PaymentCompleted); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// UpdatePaymentStatus is an independent axis: payment and fulfillment
// proceed asynchronously, so no constraint on the order status applies.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidPaymentStatus
	}
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}
	return s.orders.UpdatePaymentStatus(ctx, id, status)
}

func (s *OrderService) ListShippers(ctx context.Context) ([]models.Shipper, error) {
	return s.shippers.List(ctx)
}
