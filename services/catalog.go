package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"recordstore/cache"
	"recordstore/models"
	"recordstore/repository"
)

// CatalogService serves disc reads through the cache accessor and keeps
// the cache warm after catalog mutations.
type CatalogService struct {
	repo     *repository.CatalogRepository
	accessor *cache.Accessor
	logger   *zap.Logger
	ttl      time.Duration
}

func NewCatalogService(repo *repository.CatalogRepository, accessor *cache.Accessor, logger *zap.Logger, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: repo, accessor: accessor, logger: logger, ttl: ttl}
}

func (s *CatalogService) GetDisc(ctx context.Context, discID string) (*models.Disc, error) {
	id, err := primitive.ObjectIDFromHex(discID)
	if err != nil {
		return nil, ErrInvalidDiscID
	}

	disc, _, err := cache.GetOrLoad(ctx, s.accessor, cache.DiscKey(discID), s.ttl, func(ctx context.Context) (*models.Disc, error) {
		return s.repo.GetDisc(ctx, id)
	})
	return disc, err
}

func (s *CatalogService) ListDiscs(ctx context.Context) ([]models.Disc, error) {
	discs, _, err := cache.GetOrLoad(ctx, s.accessor, cache.DiscListKey, s.ttl, func(ctx context.Context) ([]models.Disc, error) {
		return s.repo.ListDiscs(ctx)
	})
	return discs, err
}

// UpdateDisc mutates price and/or stock, then refreshes the single-disc
// entry and drops the listing so the next list read repopulates it.
func (s *CatalogService) UpdateDisc(ctx context.Context, discID string, price *models.Money, stock *int) (*models.Disc, error) {
	id, err := primitive.ObjectIDFromHex(discID)
	if err != nil {
		return nil, ErrInvalidDiscID
	}

	disc, err := s.repo.UpdateDisc(ctx, id, price, stock)
	if err != nil {
		return nil, err
	}

	cache.WriteThrough(ctx, s.accessor, cache.DiscKey(discID), s.ttl, disc)
	s.accessor.Invalidate(ctx, cache.DiscListKey)
	return disc, nil
}
