package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recordstore/models"
)

type CatalogRepository struct {
	collection *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{collection: db.Collection("discs")}
}

func (r *CatalogRepository) GetDisc(ctx context.Context, id primitive.ObjectID) (*models.Disc, error) {
	var disc models.Disc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&disc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDiscNotFound
		}
		return nil, fmt.Errorf("failed to get disc: %w", err)
	}
	return &disc, nil
}

func (r *CatalogRepository) ListDiscs(ctx context.Context) ([]models.Disc, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list discs: %w", err)
	}

	var discs []models.Disc
	if err := cursor.All(ctx, &discs); err != nil {
		return nil, fmt.Errorf("failed to decode discs: %w", err)
	}
	return discs, nil
}

// UpdateDisc sets price and/or stock and returns the post-update document
// so the caller can write it through to the cache.
func (r *CatalogRepository) UpdateDisc(ctx context.Context, id primitive.ObjectID, price *models.Money, stock *int) (*models.Disc, error) {
	set := bson.M{"updatedAt": time.Now()}
	if price != nil {
		set["price"] = *price
	}
	if stock != nil {
		set["stock"] = *stock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var disc models.Disc
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&disc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDiscNotFound
		}
		return nil, fmt.Errorf("failed to update disc: %w", err)
	}
	return &disc, nil
}
