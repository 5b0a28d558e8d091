package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recordstore/models"
)

type DeliveryFeeRepository struct {
	collection *mongo.Collection
}

func NewDeliveryFeeRepository(db *mongo.Database) *DeliveryFeeRepository {
	return &DeliveryFeeRepository{collection: db.Collection("deliveryFees")}
}

// GetByDistrict looks the district up verbatim; no normalization beyond
// what the address interpreter already did.
func (r *DeliveryFeeRepository) GetByDistrict(ctx context.Context, district string) (*models.DeliveryFee, error) {
	var fee models.DeliveryFee
	err := r.collection.FindOne(ctx, bson.M{"toDistrict": district}).Decode(&fee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFeeNotFound
		}
		return nil, fmt.Errorf("failed to get delivery fee: %w", err)
	}
	return &fee, nil
}

func (r *DeliveryFeeRepository) List(ctx context.Context) ([]models.DeliveryFee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "toDistrict", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery fees: %w", err)
	}

	var fees []models.DeliveryFee
	if err := cursor.All(ctx, &fees); err != nil {
		return nil, fmt.Errorf("failed to decode delivery fees: %w", err)
	}
	return fees, nil
}

type ShipperRepository struct {
	collection *mongo.Collection
}

func NewShipperRepository(db *mongo.Database) *ShipperRepository {
	return &ShipperRepository{collection: db.Collection("shippers")}
}

// Random picks one shipper uniformly from the active pool.
func (r *ShipperRepository) Random(ctx context.Context) (*models.Shipper, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample shipper: %w", err)
	}

	var shippers []models.Shipper
	if err := cursor.All(ctx, &shippers); err != nil {
		return nil, fmt.Errorf("failed to decode shipper: %w", err)
	}
	if len(shippers) == 0 {
		return nil, ErrNoShippers
	}
	return &shippers[0], nil
}

func (r *ShipperRepository) List(ctx context.Context) ([]models.Shipper, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list shippers: %w", err)
	}

	var shippers []models.Shipper
	if err := cursor.All(ctx, &shippers); err != nil {
		return nil, fmt.Errorf("failed to decode shippers: %w", err)
	}
	return shippers, nil
}
