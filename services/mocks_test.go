package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recordstore/cache"
	"recordstore/models"
	"recordstore/repository"
)

// In-memory fakes for the store interfaces and the cache client.

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.entries[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return data, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

type mockCartStore struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart

	// suppressReads makes the next N reads miss, simulating the window
	// where a concurrent request reads before another one's write lands.
	suppressReads int
	upsertErr     error
	deleteErr     error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func copyCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem(nil), c.Items...)
	return &out
}

func (m *mockCartStore) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.suppressReads > 0 {
		m.suppressReads--
		return nil, repository.ErrCartNotFound
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (m *mockCartStore) Upsert(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (m *mockCartStore) Delete(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.carts, userID)
	return nil
}

type mockCatalog struct {
	mu    sync.Mutex
	discs map[primitive.ObjectID]models.Disc
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{discs: make(map[primitive.ObjectID]models.Disc)}
}

func (m *mockCatalog) put(disc models.Disc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discs[disc.ID] = disc
}

func (m *mockCatalog) setPrice(id primitive.ObjectID, price models.Money) {
	m.mu.Lock()
	defer m.mu.Unlock()
	disc := m.discs[id]
	disc.Price = price
	m.discs[id] = disc
}

func (m *mockCatalog) GetDisc(_ context.Context, id primitive.ObjectID) (*models.Disc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	disc, ok := m.discs[id]
	if !ok {
		return nil, repository.ErrDiscNotFound
	}
	return &disc, nil
}

func (m *mockCatalog) ListDiscs(context.Context) ([]models.Disc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Disc, 0, len(m.discs))
	for _, d := range m.discs {
		out = append(out, d)
	}
	return out, nil
}

type mockOrderStore struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]*models.Order
	insertErr error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func copyOrder(o *models.Order) *models.Order {
	out := *o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	out.StatusHistory = append([]models.StatusEvent(nil), o.StatusHistory...)
	return &out
}

func (m *mockOrderStore) Insert(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *mockOrderStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (m *mockOrderStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *copyOrder(o))
		}
	}
	return out, nil
}

func (m *mockOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, current, next models.OrderStatus, event models.StatusEvent) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || order.Status != current {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = next
	order.StatusHistory = append(order.StatusHistory, event)
	return copyOrder(order), nil
}

func (m *mockOrderStore) UpdatePaymentStatus(_ context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.PaymentStatus = status
	return copyOrder(order), nil
}

type mockFeeStore struct {
	fees map[string]models.DeliveryFee
}

func newMockFeeStore() *mockFeeStore {
	return &mockFeeStore{fees: make(map[string]models.DeliveryFee)}
}

func (m *mockFeeStore) GetByDistrict(_ context.Context, district string) (*models.DeliveryFee, error) {
	fee, ok := m.fees[district]
	if !ok {
		return nil, repository.ErrFeeNotFound
	}
	return &fee, nil
}

func (m *mockFeeStore) List(context.Context) ([]models.DeliveryFee, error) {
	out := make([]models.DeliveryFee, 0, len(m.fees))
	for _, f := range m.fees {
		out = append(out, f)
	}
	return out, nil
}

type mockShipperStore struct {
	shippers []models.Shipper
}

func (m *mockShipperStore) Random(context.Context) (*models.Shipper, error) {
	if len(m.shippers) == 0 {
		return nil, repository.ErrNoShippers
	}
	return &m.shippers[0], nil
}

func (m *mockShipperStore) List(context.Context) ([]models.Shipper, error) {
	return m.shippers, nil
}

type stubEstimator struct {
	result string
}

func (s stubEstimator) Estimate(context.Context, string) string { return s.result }

type stubGeocoder struct {
	coords *Coordinates
	err    error
}

func (s stubGeocoder) Geocode(context.Context, string) (*Coordinates, error) {
	return s.coords, s.err
}
