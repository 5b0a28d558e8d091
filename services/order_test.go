package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"recordstore/cache"
	"recordstore/models"
	"recordstore/repository"
)

const checkoutAddress = "123 Lê Lợi, Quận 1, TP.HCM"

type orderFixture struct {
	svc      *OrderService
	orders   *mockOrderStore
	carts    *mockCartStore
	catalog  *mockCatalog
	cache    *fakeCache
	shippers *mockShipperStore
	accessor *cache.Accessor

	userID primitive.ObjectID
	discA  models.Disc
	discB  models.Disc
}

func newOrderFixture(t *testing.T, est Estimator) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orders:  newMockOrderStore(),
		carts:   newMockCartStore(),
		catalog: newMockCatalog(),
		cache:   newFakeCache(),
		shippers: &mockShipperStore{shippers: []models.Shipper{
			{ID: primitive.NewObjectID(), Name: "Minh", Phone: "0901234567"},
		}},
		userID: primitive.NewObjectID(),
		discA:  models.Disc{ID: primitive.NewObjectID(), Name: "Abbey Road", Price: 50000, Stock: 10},
		discB:  models.Disc{ID: primitive.NewObjectID(), Name: "Kind of Blue", Price: 20000, Stock: 5},
	}
	f.catalog.put(f.discA)
	f.catalog.put(f.discB)
	f.accessor = cache.NewAccessor(f.cache, zap.NewNop())

	fees := newMockFeeStore()
	fees.fees["Quận 1"] = models.DeliveryFee{ToDistrict: "Quận 1", FromDistrict: "Phường Chợ Quán", Fee: 10000}
	feeSvc := NewDeliveryFeeService(fees, VNAddressInterpreter{}, zap.NewNop())

	f.svc = NewOrderService(f.orders, f.carts, f.catalog, feeSvc, est, f.shippers, f.accessor, zap.NewNop())
	return f
}

func (f *orderFixture) seedCart(ctx context.Context, t *testing.T, items ...models.CartItem) {
	t.Helper()

	cart := &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: f.userID,
		Items:  items,
	}
	for _, item := range items {
		if disc, err := f.catalog.GetDisc(ctx, item.DiscID); err == nil {
			cart.Total += disc.Price * models.Money(item.Quantity)
		}
	}
	require.NoError(t, f.carts.Upsert(ctx, cart))
	cache.WriteThrough(ctx, f.accessor, cache.CartKey(f.userID.Hex()), time.Minute, cart)
}

func TestCheckoutBuildsOrderFromCart(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 2})

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Cash on Delivery")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, f.discA.ID, order.Items[0].DiscID)
	assert.Equal(t, "Abbey Road", order.Items[0].Name)
	assert.Equal(t, models.Money(50000), order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, models.Money(10000), order.DeliveryFee)
	assert.Equal(t, models.Money(110000), order.TotalPrice)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentCOD, order.PaymentMethod)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus, "cash settles on delivery")
	assert.Equal(t, NoEstimate, order.EstimatedDeliveryTime)
	assert.False(t, order.ShipperID.IsZero())
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusConfirmed, order.StatusHistory[0].Status)

	// Checkout consumes the cart, in both the store and the cache.
	_, err = f.carts.GetByUser(ctx, f.userID)
	assert.ErrorIs(t, err, repository.ErrCartNotFound)
	assert.False(t, f.cache.has(cache.CartKey(f.userID.Hex())))
}

func TestCheckoutCompletesNonCashPayment(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, order.PaymentStatus)
}

func TestCheckoutCarriesDeliveryEstimate(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: "15:04"})
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "MoMo")
	require.NoError(t, err)
	assert.Equal(t, "15:04", order.EstimatedDeliveryTime)
}

func TestCheckoutValidation(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Barter")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = f.svc.CreateOrder(ctx, f.userID.Hex(), "   ", "Stripe")
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = f.svc.CreateOrder(ctx, "not-an-id", checkoutAddress, "Stripe")
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	assert.ErrorIs(t, err, ErrEmptyCart, "no cart at all")

	f.seedCart(ctx, t)
	_, err = f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	assert.ErrorIs(t, err, ErrEmptyCart, "cart with no items")
}

func TestCheckoutInsertFailureKeepsCart(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})

	f.orders.insertErr = errors.New("write concern error")

	_, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	require.Error(t, err)

	cart, err := f.carts.GetByUser(ctx, f.userID)
	require.NoError(t, err, "a failed checkout must leave the cart for a retry")
	assert.Len(t, cart.Items, 1)
	assert.True(t, f.cache.has(cache.CartKey(f.userID.Hex())))
}

func TestOrderImmutableAfterCatalogChange(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	require.NoError(t, err)

	f.catalog.setPrice(f.discA.ID, 99000)

	got, err := f.svc.GetOrder(ctx, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.Money(50000), got.Items[0].Price, "order lines are snapshots")
	assert.Equal(t, models.Money(60000), got.TotalPrice)
}

func TestCheckoutMissingDiscBecomesPlaceholderLine(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.seedCart(ctx, t,
		models.CartItem{DiscID: f.discA.ID, Quantity: 1},
		models.CartItem{DiscID: f.discB.ID, Quantity: 1},
	)

	f.catalog.mu.Lock()
	delete(f.catalog.discs, f.discB.ID)
	f.catalog.mu.Unlock()

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Disc", order.Items[1].Name)
	assert.Equal(t, models.Money(0), order.Items[1].Price)
	assert.Equal(t, models.Money(60000), order.TotalPrice, "discA plus fee only")
}

func TestCheckoutWithoutShippersStillSucceeds(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	f.shippers.shippers = nil
	ctx := context.Background()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})

	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, "Stripe")
	require.NoError(t, err)
	assert.True(t, order.ShipperID.IsZero())
}

func (f *orderFixture) placeOrder(ctx context.Context, t *testing.T, method string) *models.Order {
	t.Helper()
	f.seedCart(ctx, t, models.CartItem{DiscID: f.discA.ID, Quantity: 1})
	order, err := f.svc.CreateOrder(ctx, f.userID.Hex(), checkoutAddress, method)
	require.NoError(t, err)
	return order
}

func TestUpdateStatusAdvancesAndRecordsHistory(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	order := f.placeOrder(ctx, t, "Stripe")

	updated, err := f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusPickingUp, "shipper en route")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPickingUp, updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "shipper en route", updated.StatusHistory[1].Description)

	// Skipping intermediate stages forward is allowed.
	updated, err = f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivering, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivering, updated.Status)
	assert.Len(t, updated.StatusHistory, 3)
}

func TestUpdateStatusRejectsRegression(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	order := f.placeOrder(ctx, t, "Stripe")

	_, err := f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivering, "")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusPreparing, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivering, "")
	assert.ErrorIs(t, err, ErrInvalidTransition, "self-transition is not forward")
}

func TestUpdateStatusTerminalStates(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	order := f.placeOrder(ctx, t, "Stripe")

	cancelled, err := f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusCancelled, "customer changed their mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusPickingUp, "")
	assert.ErrorIs(t, err, ErrInvalidTransition, "cancelled orders never resume")

	_, err = f.svc.UpdateStatus(ctx, order.ID.Hex(), "Teleported", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeliveredCompletesCashPayment(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	order := f.placeOrder(ctx, t, "Cash on Delivery")
	require.Equal(t, models.PaymentPending, order.PaymentStatus)

	updated, err := f.svc.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)
}

func TestUpdatePaymentStatusIndependentOfFulfillment(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	order := f.placeOrder(ctx, t, "Cash on Delivery")

	updated, err := f.svc.UpdatePaymentStatus(ctx, order.ID.Hex(), models.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, updated.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, updated.Status, "fulfillment untouched")

	_, err = f.svc.UpdatePaymentStatus(ctx, order.ID.Hex(), "Refunded")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestListUserOrders(t *testing.T) {
	f := newOrderFixture(t, stubEstimator{result: NoEstimate})
	ctx := context.Background()
	f.placeOrder(ctx, t, "Stripe")

	orders, err := f.svc.ListUserOrders(ctx, f.userID.Hex())
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = f.svc.ListUserOrders(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestProgressorDeliveryTime(t *testing.T) {
	p := NewProgressor(nil, zap.NewNop())
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)
	p.now = func() time.Time { return now }

	order := &models.Order{CreatedAt: now, EstimatedDeliveryTime: "15:04"}
	assert.Equal(t, time.Date(2026, 8, 31, 15, 4, 0, 0, time.Local), p.deliveryTime(order))

	order.EstimatedDeliveryTime = "09:00"
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local), p.deliveryTime(order),
		"an estimate already in the past rolls to tomorrow")

	order.EstimatedDeliveryTime = NoEstimate
	assert.Equal(t, now.Add(deliveryFallback), p.deliveryTime(order))
}
