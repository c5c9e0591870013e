package interfaces

import (
	"context"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.CouponRedemption) error
	GetByPaymentID(ctx context.Context, paymentID primitive.ObjectID) (*models.CouponRedemption, error)
	CountByCouponAndUser(ctx context.Context, couponID, userID primitive.ObjectID) (int64, error)
	// CountByUser returns the user's redemption count for each of couponIDs.
	CountByUser(ctx context.Context, userID primitive.ObjectID, couponIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}
