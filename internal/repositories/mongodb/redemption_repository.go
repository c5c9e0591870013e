package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type redemptionRepository struct {
	collection *mongo.Collection
}

func NewRedemptionRepository(db *mongo.Database) interfaces.RedemptionRepository {
	return &redemptionRepository{
		collection: db.Collection(database.CollectionRedemptions),
	}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *models.CouponRedemption) error {
	if redemption.ID.IsZero() {
		redemption.ID = primitive.NewObjectID()
	}
	if redemption.RedeemedAt.IsZero() {
		redemption.RedeemedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, redemption)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("redemption for payment %s: %w", redemption.PaymentID.Hex(), interfaces.ErrDuplicate)
		}
		return fmt.Errorf("failed to create redemption: %w", err)
	}

	return nil
}

func (r *redemptionRepository) GetByPaymentID(ctx context.Context, paymentID primitive.ObjectID) (*models.CouponRedemption, error) {
	var redemption models.CouponRedemption
	err := r.collection.FindOne(ctx, bson.M{"payment_id": paymentID}).Decode(&redemption)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("redemption for payment %s: %w", paymentID.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}

	return &redemption, nil
}

func (r *redemptionRepository) CountByCouponAndUser(ctx context.Context, couponID, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"coupon_id": couponID,
		"user_id":   userID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	return count, nil
}

func (r *redemptionRepository) CountByUser(ctx context.Context, userID primitive.ObjectID, couponIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64, len(couponIDs))
	if len(couponIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user_id":   userID,
			"coupon_id": bson.M{"$in": couponIDs},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$coupon_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate redemptions: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			CouponID primitive.ObjectID `bson:"_id"`
			Count    int64              `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode redemption count: %w", err)
		}
		counts[row.CouponID] = row.Count
	}

	return counts, cursor.Err()
}
