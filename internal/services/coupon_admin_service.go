package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/config"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/validators"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponAdminService interface {
	// Coupon Management
	CreateCoupon(ctx context.Context, adminID primitive.ObjectID, req *models.CreateCouponRequest) (*models.Coupon, error)
	GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, adminID, id primitive.ObjectID, req *models.UpdateCouponRequest) (*models.Coupon, error)
	SetCouponStatus(ctx context.Context, adminID, id primitive.ObjectID, active bool) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, adminID, id primitive.ObjectID) error
	ListCoupons(ctx context.Context, filter *models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error)

	// Reconciliation
	ListReconciliationQueue(ctx context.Context, params *utils.PaginationParams) ([]*models.Payment, int64, error)
}

type couponAdminService struct {
	couponRepo  interfaces.CouponRepository
	paymentRepo interfaces.PaymentRepository
	config      *config.CheckoutConfig
	audit       *logger.AuditLogger
	logger      *logger.Logger
	now         func() time.Time
}

func NewCouponAdminService(
	config *config.CheckoutConfig,
	couponRepo interfaces.CouponRepository,
	paymentRepo interfaces.PaymentRepository,
	log *logger.Logger,
) CouponAdminService {
	serviceLogger := log.WithField("service", "coupon_admin")
	return &couponAdminService{
		couponRepo:  couponRepo,
		paymentRepo: paymentRepo,
		config:      config,
		audit:       logger.NewAuditLogger(serviceLogger),
		logger:      serviceLogger,
		now:         time.Now,
	}
}

func (s *couponAdminService) CreateCoupon(ctx context.Context, adminID primitive.ObjectID, req *models.CreateCouponRequest) (*models.Coupon, error) {
	courses, err := parseCourseIDs(req.ApplicableCourses)
	if err != nil {
		return nil, err
	}

	perUserLimit := req.PerUserLimit
	if perUserLimit == 0 {
		perUserLimit = s.config.DefaultPerUserLimit
	}
	if perUserLimit <= 0 {
		perUserLimit = utils.DefaultPerUserLimit
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.now().UTC()
	coupon := &models.Coupon{
		ID:                primitive.NewObjectID(),
		Code:              models.NormalizeCouponCode(req.Code),
		Description:       validators.SanitizeInput(req.Description),
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscount:       req.MaxDiscount,
		MinPurchaseAmount: req.MinPurchaseAmount,
		ApplicableCourses: courses,
		UsageLimit:        req.UsageLimit,
		PerUserLimit:      perUserLimit,
		ExpiryDate:        req.ExpiryDate.UTC(),
		IsActive:          isActive,
		CreatedBy:         adminID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if errs := validators.ValidateCouponRules(coupon); len(errs) > 0 {
		return nil, wrapError(ErrInvalidCoupon, errs, errs.Error())
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrCouponCodeTaken
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.audit.LogAction("coupon_created", "coupon", &adminID, map[string]interface{}{
		"coupon_id":      coupon.ID.Hex(),
		"code":           coupon.Code,
		"discount_type":  string(coupon.DiscountType),
		"discount_value": coupon.DiscountValue,
		"usage_limit":    coupon.UsageLimit,
	})
	return coupon, nil
}

func (s *couponAdminService) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponAdminService) UpdateCoupon(ctx context.Context, adminID, id primitive.ObjectID, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Description != nil {
		coupon.Description = validators.SanitizeInput(*req.Description)
		updates["description"] = coupon.Description
	}
	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
		updates["discount_type"] = coupon.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
		updates["discount_value"] = coupon.DiscountValue
	}
	if req.MaxDiscount != nil {
		// zero clears the cap
		if *req.MaxDiscount == 0 {
			coupon.MaxDiscount = nil
		} else {
			maxDiscount := *req.MaxDiscount
			coupon.MaxDiscount = &maxDiscount
		}
		updates["max_discount"] = coupon.MaxDiscount
	}
	if req.MinPurchaseAmount != nil {
		coupon.MinPurchaseAmount = *req.MinPurchaseAmount
		updates["min_purchase_amount"] = coupon.MinPurchaseAmount
	}
	if req.ApplicableCourses != nil {
		courses, err := parseCourseIDs(req.ApplicableCourses)
		if err != nil {
			return nil, err
		}
		coupon.ApplicableCourses = courses
		updates["applicable_courses"] = courses
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
		updates["usage_limit"] = coupon.UsageLimit
	}
	if req.PerUserLimit != nil {
		coupon.PerUserLimit = *req.PerUserLimit
		updates["per_user_limit"] = coupon.PerUserLimit
	}
	if req.ExpiryDate != nil {
		coupon.ExpiryDate = req.ExpiryDate.UTC()
		updates["expiry_date"] = coupon.ExpiryDate
	}

	if len(updates) == 0 {
		return coupon, nil
	}

	if errs := validators.ValidateCouponRules(coupon); len(errs) > 0 {
		return nil, wrapError(ErrInvalidCoupon, errs, errs.Error())
	}

	coupon.UpdatedAt = s.now().UTC()
	updates["updated_at"] = coupon.UpdatedAt

	if err := s.couponRepo.Update(ctx, id, updates); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, ErrCouponNotFound
		case errors.Is(err, interfaces.ErrConflict):
			return nil, wrapError(ErrInvalidCoupon, err, "usage_limit cannot be below the uses already redeemed")
		}
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	s.audit.LogAction("coupon_updated", "coupon", &adminID, map[string]interface{}{
		"coupon_id": id.Hex(),
		"fields":    strings.Join(fields, ","),
	})
	return coupon, nil
}

func (s *couponAdminService) SetCouponStatus(ctx context.Context, adminID, id primitive.ObjectID, active bool) (*models.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon.IsActive == active {
		return coupon, nil
	}

	coupon.IsActive = active
	coupon.UpdatedAt = s.now().UTC()
	if err := s.couponRepo.Update(ctx, id, map[string]interface{}{
		"is_active":  active,
		"updated_at": coupon.UpdatedAt,
	}); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to update coupon status: %w", err)
	}

	action := "coupon_deactivated"
	if active {
		action = "coupon_activated"
	}
	s.audit.LogAction(action, "coupon", &adminID, map[string]interface{}{
		"coupon_id": id.Hex(),
		"code":      coupon.Code,
	})
	return coupon, nil
}

// DeleteCoupon removes a coupon that has never been redeemed. Redeemed
// coupons are kept for the redemption history.
func (s *couponAdminService) DeleteCoupon(ctx context.Context, adminID, id primitive.ObjectID) error {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return err
	}
	if coupon.UsedCount > 0 {
		return ErrCouponInUse
	}

	if err := s.couponRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return ErrCouponNotFound
		case errors.Is(err, interfaces.ErrConflict):
			return ErrCouponInUse
		}
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.audit.LogAction("coupon_deleted", "coupon", &adminID, map[string]interface{}{
		"coupon_id": id.Hex(),
		"code":      coupon.Code,
	})
	return nil
}

func (s *couponAdminService) ListCoupons(ctx context.Context, filter *models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	coupons, total, err := s.couponRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, total, nil
}

func (s *couponAdminService) ListReconciliationQueue(ctx context.Context, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	payments, total, err := s.paymentRepo.ListNeedingReconciliation(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reconciliation queue: %w", err)
	}
	return payments, total, nil
}

func parseCourseIDs(ids []string) ([]primitive.ObjectID, error) {
	courses := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, wrapError(ErrInvalidCoupon, err, "applicable_courses: invalid course id "+raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		courses = append(courses, id)
	}
	return courses, nil
}
