package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"recordstore/cache"
	"recordstore/models"
	"recordstore/repository"
)

// CartService keeps the single cart per user and its denormalized total
// consistent with current catalog prices. The total is recomputed against
// the authoritative catalog store on every mutation, never from prices
// remembered in the cart record.
//
// Mutations are not serialized across requests for the same user; the
// later write's recomputed total overwrites the earlier one.
type CartService struct {
	carts    CartStore
	catalog  Catalog
	accessor *cache.Accessor
	logger   *zap.Logger
	ttl      time.Duration
}

func NewCartService(carts CartStore, catalog Catalog, accessor *cache.Accessor, logger *zap.Logger, ttl time.Duration) *CartService {
	return &CartService{carts: carts, catalog: catalog, accessor: accessor, logger: logger, ttl: ttl}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	cart, _, err := cache.GetOrLoad(ctx, s.accessor, cache.CartKey(userID), s.ttl, func(ctx context.Context) (*models.Cart, error) {
		return s.carts.GetByUser(ctx, uid)
	})
	return cart, err
}

// AddItem appends a line or increments an existing one, then recomputes
// the total and writes the cart through to the cache.
func (s *CartService) AddItem(ctx context.Context, userID, discID string, quantity int) (*models.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	did, err := primitive.ObjectIDFromHex(discID)
	if err != nil {
		return nil, ErrInvalidDiscID
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.catalog.GetDisc(ctx, did); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			return nil, err
		}
		cart = &models.Cart{UserID: uid}
	}

	if i := cart.FindItem(did); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{DiscID: did, Quantity: quantity})
	}

	return s.saveCart(ctx, userID, cart)
}

// UpdateItemQuantity sets the line's quantity; zero or negative removes
// the line entirely rather than persisting a zero.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, discID string, quantity int) (*models.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	did, err := primitive.ObjectIDFromHex(discID)
	if err != nil {
		return nil, ErrInvalidDiscID
	}

	cart, err := s.carts.GetByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(did)
	if i < 0 {
		return nil, repository.ErrItemNotFound
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	return s.saveCart(ctx, userID, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, discID string) (*models.Cart, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	did, err := primitive.ObjectIDFromHex(discID)
	if err != nil {
		return nil, ErrInvalidDiscID
	}

	cart, err := s.carts.GetByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(did)
	if i < 0 {
		return nil, repository.ErrItemNotFound
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	return s.saveCart(ctx, userID, cart)
}

// Clear deletes the cart record outright, store and cache. Used by the
// checkout path after the order has been persisted.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidUserID
	}

	if err := s.carts.Delete(ctx, uid); err != nil {
		return err
	}
	s.accessor.Invalidate(ctx, cache.CartKey(userID))
	return nil
}

func (s *CartService) saveCart(ctx context.Context, userID string, cart *models.Cart) (*models.Cart, error) {
	total, err := s.recomputeTotal(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.Total = total

	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, err
	}

	cache.WriteThrough(ctx, s.accessor, cache.CartKey(userID), s.ttl, cart)
	return cart, nil
}

// recomputeTotal sums currentCatalogPrice × quantity over all lines. The
// price is fetched per line at recomputation time; a line whose disc has
// vanished from the catalog contributes nothing.
func (s *CartService) recomputeTotal(ctx context.Context, cart *models.Cart) (models.Money, error) {
	var total models.Money
	for _, item := range cart.Items {
		disc, err := s.catalog.GetDisc(ctx, item.DiscID)
		if err != nil {
			if errors.Is(err, repository.ErrDiscNotFound) {
				s.logger.Warn("cart line references missing disc",
					zap.String("discId", item.DiscID.Hex()))
				continue
			}
			return 0, err
		}
		total += disc.Price * models.Money(item.Quantity)
	}
	return total, nil
}
