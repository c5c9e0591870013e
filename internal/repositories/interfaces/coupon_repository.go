package interfaces

import (
	"context"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	// Update returns ErrConflict when a new usage_limit is below used_count.
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	// Delete returns ErrConflict when the coupon has been redeemed.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Code operations
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)

	// Listing
	List(ctx context.Context, filter *models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error)
	// FindApplicable returns coupons that are active, unexpired at now, not
	// exhausted and either universal or scoped to courseID.
	FindApplicable(ctx context.Context, courseID primitive.ObjectID, now time.Time) ([]*models.Coupon, error)

	// Usage tracking. IncrementUsageIfAvailable bumps used_count only while
	// the coupon is still valid at now and returns ErrConflict otherwise.
	IncrementUsageIfAvailable(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error)
}
