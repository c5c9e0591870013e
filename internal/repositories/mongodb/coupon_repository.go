package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Coupons are never cached: eligibility depends on used_count.
type couponRepository struct {
	collection *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection(database.CollectionCoupons),
	}
}

// Basic CRUD operations
func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	now := time.Now()
	coupon.ID = primitive.NewObjectID()
	coupon.Code = models.NormalizeCouponCode(coupon.Code)
	coupon.CreatedAt = now
	coupon.UpdatedAt = now
	if coupon.ApplicableCourses == nil {
		coupon.ApplicableCourses = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("coupon code %s: %w", coupon.Code, interfaces.ErrDuplicate)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("coupon %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	filter := couponUpdateFilter(id, updates)

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.missOrConflict(ctx, id, len(filter) > 1)
	}

	return nil
}

// Delete removes a coupon only while it has no redemptions.
func (r *couponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, couponDeleteFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if result.DeletedCount == 0 {
		return r.missOrConflict(ctx, id, true)
	}

	return nil
}

// missOrConflict explains a write that matched nothing: ErrConflict when the
// coupon exists but failed a guard, ErrNotFound otherwise.
func (r *couponRepository) missOrConflict(ctx context.Context, id primitive.ObjectID, guarded bool) error {
	if guarded {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to check coupon: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("coupon %s: %w", id.Hex(), interfaces.ErrConflict)
		}
	}
	return fmt.Errorf("coupon %s: %w", id.Hex(), interfaces.ErrNotFound)
}

// couponUpdateFilter keeps used_count <= usage_limit when the limit changes,
// even if redemptions commit after the caller read the coupon.
func couponUpdateFilter(id primitive.ObjectID, updates map[string]interface{}) bson.M {
	filter := bson.M{"_id": id}
	if limit, ok := updates["usage_limit"]; ok {
		filter["$expr"] = bson.M{"$lte": bson.A{"$used_count", limit}}
	}
	return filter
}

func couponDeleteFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "used_count": 0}
}

// Code operations
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = models.NormalizeCouponCode(code)

	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("coupon %s: %w", code, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	return &coupon, nil
}

// Listing
func (r *couponRepository) List(ctx context.Context, filter *models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	query := couponListFilter(filter, params)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon
	for cursor.Next(ctx) {
		var coupon models.Coupon
		if err := cursor.Decode(&coupon); err != nil {
			return nil, 0, fmt.Errorf("failed to decode coupon: %w", err)
		}
		coupons = append(coupons, &coupon)
	}

	return coupons, total, cursor.Err()
}

func (r *couponRepository) FindApplicable(ctx context.Context, courseID primitive.ObjectID, now time.Time) ([]*models.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

	cursor, err := r.collection.Find(ctx, applicableCouponsFilter(courseID, now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find applicable coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("failed to decode applicable coupons: %w", err)
	}

	return coupons, nil
}

// Usage tracking
func (r *couponRepository) IncrementUsageIfAvailable(ctx context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	filter := bson.M{"_id": id}
	for k, v := range currentlyValidFilter(now) {
		filter[k] = v
	}

	update := bson.M{
		"$inc": bson.M{"used_count": 1},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var coupon models.Coupon
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("coupon %s no longer redeemable: %w", id.Hex(), interfaces.ErrConflict)
		}
		return nil, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	return &coupon, nil
}

// currentlyValidFilter matches active, unexpired coupons with uses left.
func currentlyValidFilter(now time.Time) bson.M {
	return bson.M{
		"is_active":   true,
		"expiry_date": bson.M{"$gt": now},
		"$expr":       bson.M{"$lt": bson.A{"$used_count", "$usage_limit"}},
	}
}

func applicableCouponsFilter(courseID primitive.ObjectID, now time.Time) bson.M {
	filter := currentlyValidFilter(now)
	filter["$or"] = bson.A{
		bson.M{"applicable_courses": bson.M{"$size": 0}},
		bson.M{"applicable_courses": nil},
		bson.M{"applicable_courses": courseID},
	}
	return filter
}

func couponListFilter(filter *models.CouponFilter, params *utils.PaginationParams) bson.M {
	query := params.GetSearchFilter([]string{"code", "description"})
	if filter == nil {
		return query
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.CourseID != nil {
		query["applicable_courses"] = *filter.CourseID
	}
	return query
}
