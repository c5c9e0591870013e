package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponService interface {
	// ListApplicable returns the coupons the user can still redeem for the
	// course, best discount first.
	ListApplicable(ctx context.Context, courseID, userID primitive.ObjectID) ([]*models.CouponSummary, error)

	// Evaluate checks eligibility and computes the discount for amount. It
	// never writes.
	Evaluate(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error)

	// Preview is Evaluate for the storefront: a zero amount means the
	// course's current fee.
	Preview(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error)
}

type couponService struct {
	couponRepo     interfaces.CouponRepository
	redemptionRepo interfaces.RedemptionRepository
	courseRepo     interfaces.CourseRepository
	logger         *logger.Logger
	now            func() time.Time
}

func NewCouponService(
	couponRepo interfaces.CouponRepository,
	redemptionRepo interfaces.RedemptionRepository,
	courseRepo interfaces.CourseRepository,
	log *logger.Logger,
) CouponService {
	return &couponService{
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		courseRepo:     courseRepo,
		logger:         log.WithField("service", "coupon"),
		now:            time.Now,
	}
}

func (s *couponService) ListApplicable(ctx context.Context, courseID, userID primitive.ObjectID) ([]*models.CouponSummary, error) {
	course, err := loadCourse(ctx, s.courseRepo.GetByID, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	coupons, err := s.couponRepo.FindApplicable(ctx, courseID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find applicable coupons: %w", err)
	}
	if len(coupons) == 0 {
		return []*models.CouponSummary{}, nil
	}

	ids := make([]primitive.ObjectID, len(coupons))
	for i, c := range coupons {
		ids[i] = c.ID
	}
	used, err := s.redemptionRepo.CountByUser(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count user redemptions: %w", err)
	}

	summaries := make([]*models.CouponSummary, 0, len(coupons))
	for _, c := range coupons {
		if !c.IsCurrentlyValid(now) || !c.AppliesTo(courseID) {
			continue
		}
		if used[c.ID] >= int64(c.PerUserLimit) {
			continue
		}

		var estimated int64
		if course.Fees >= c.MinPurchaseAmount {
			estimated = ComputeDiscount(c, course.Fees)
		}

		summaries = append(summaries, &models.CouponSummary{
			ID:                c.ID,
			Code:              c.Code,
			Description:       c.Description,
			DiscountType:      c.DiscountType,
			DiscountValue:     c.DiscountValue,
			MaxDiscount:       c.MaxDiscount,
			MinPurchaseAmount: c.MinPurchaseAmount,
			ExpiryDate:        c.ExpiryDate,
			RemainingUses:     c.RemainingUses(),
			EstimatedDiscount: estimated,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].EstimatedDiscount != summaries[j].EstimatedDiscount {
			return summaries[i].EstimatedDiscount > summaries[j].EstimatedDiscount
		}
		return summaries[i].Code < summaries[j].Code
	})

	return summaries, nil
}

func (s *couponService) Evaluate(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error) {
	result, err := s.evaluate(ctx, code, courseID, userID, amount)
	recordEvaluation(err)
	if err != nil {
		if _, ok := AsCheckoutError(err); !ok {
			s.logger.WithContext(ctx).WithError(err).Error("Coupon evaluation failed")
		}
	}
	return result, err
}

func (s *couponService) Preview(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error) {
	if amount == 0 {
		course, err := loadCourse(ctx, s.courseRepo.GetByID, courseID)
		if err != nil {
			return nil, err
		}
		amount = course.Fees
	}
	return s.Evaluate(ctx, code, courseID, userID, amount)
}

func (s *couponService) evaluate(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error) {
	if amount < 0 {
		return nil, wrapError(ErrBelowMinimum, nil, "amount must not be negative")
	}

	coupon, err := s.couponRepo.GetByCode(ctx, models.NormalizeCouponCode(code))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	if err := checkCouponState(coupon, courseID, s.now()); err != nil {
		return nil, err
	}
	if amount < coupon.MinPurchaseAmount {
		return nil, wrapError(ErrBelowMinimum, nil, fmt.Sprintf("minimum is %s", utils.FormatMinorUnits(coupon.MinPurchaseAmount, utils.DefaultCurrency)))
	}
	if err := checkPerUserLimit(ctx, s.redemptionRepo, coupon, userID); err != nil {
		return nil, err
	}

	discount := ComputeDiscount(coupon, amount)
	return &models.DiscountResult{
		CouponID:       coupon.ID,
		CouponCode:     coupon.Code,
		DiscountType:   coupon.DiscountType,
		OriginalAmount: amount,
		DiscountAmount: discount,
		FinalAmount:    amount - discount,
	}, nil
}

// ComputeDiscount returns the discount c grants on amount, in minor units.
// The final amount is rounded half-up and the discount is whatever remains,
// so the result is never negative and never exceeds amount.
func ComputeDiscount(c *models.Coupon, amount int64) int64 {
	if amount <= 0 {
		return 0
	}

	var raw decimal.Decimal
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		raw = utils.PercentageOf(amount, c.DiscountValue)
		if c.MaxDiscount != nil {
			raw = decimal.Min(raw, decimal.NewFromInt(*c.MaxDiscount))
		}
	case models.DiscountTypeFixed:
		raw = decimal.NewFromFloat(c.DiscountValue)
	}

	if raw.IsNegative() {
		return 0
	}
	final := utils.RoundMinorUnits(decimal.NewFromInt(amount).Sub(raw))
	if final < 0 {
		return amount
	}
	return amount - final
}

// checkCouponState applies the coupon-level checks in evaluation order.
// Expiry wins over every other field.
func checkCouponState(c *models.Coupon, courseID primitive.ObjectID, now time.Time) error {
	switch {
	case c.IsExpired(now):
		return ErrCouponExpired
	case !c.IsActive:
		return ErrCouponInactive
	case c.IsExhausted():
		return ErrUsageExhausted
	case !c.AppliesTo(courseID):
		return ErrCouponNotApplicable
	}
	return nil
}

func checkPerUserLimit(ctx context.Context, repo interfaces.RedemptionRepository, c *models.Coupon, userID primitive.ObjectID) error {
	count, err := repo.CountByCouponAndUser(ctx, c.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to count user redemptions: %w", err)
	}
	if count >= int64(c.PerUserLimit) {
		return ErrPerUserLimitReached
	}
	return nil
}

type courseGetter func(ctx context.Context, id primitive.ObjectID) (*models.Course, error)

func loadCourse(ctx context.Context, get courseGetter, courseID primitive.ObjectID) (*models.Course, error) {
	course, err := get(ctx, courseID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func recordEvaluation(err error) {
	if err == nil {
		metrics.RecordCouponEvaluation("ok")
		return
	}
	if ce, ok := AsCheckoutError(err); ok {
		metrics.RecordCouponEvaluation(string(ce.Kind))
		return
	}
	metrics.RecordCouponEvaluation("error")
}
