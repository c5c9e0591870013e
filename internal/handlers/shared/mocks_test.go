package handlers

import (
	"context"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) ListApplicable(ctx context.Context, courseID, userID primitive.ObjectID) ([]*models.CouponSummary, error) {
	args := m.Called(ctx, courseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CouponSummary), args.Error(1)
}

func (m *MockCouponService) Evaluate(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error) {
	args := m.Called(ctx, code, courseID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountResult), args.Error(1)
}

func (m *MockCouponService) Preview(ctx context.Context, code string, courseID, userID primitive.ObjectID, amount int64) (*models.DiscountResult, error) {
	args := m.Called(ctx, code, courseID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountResult), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateOrder(ctx context.Context, input *services.CreateOrderInput) (*models.OrderRef, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderRef), args.Error(1)
}

func (m *MockCheckoutService) VerifyAndCommit(ctx context.Context, input *services.VerifyPaymentInput) (*models.EnrollmentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EnrollmentResult), args.Error(1)
}

func (m *MockCheckoutService) ReportFailure(ctx context.Context, input *services.ReportFailureInput) (*models.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockCheckoutService) ListPayments(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Payment), args.Get(1).(int64), args.Error(2)
}

type MockCouponAdminService struct {
	mock.Mock
}

func (m *MockCouponAdminService) CreateCoupon(ctx context.Context, adminID primitive.ObjectID, req *models.CreateCouponRequest) (*models.Coupon, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponAdminService) GetCoupon(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponAdminService) UpdateCoupon(ctx context.Context, adminID, id primitive.ObjectID, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	args := m.Called(ctx, adminID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponAdminService) SetCouponStatus(ctx context.Context, adminID, id primitive.ObjectID, active bool) (*models.Coupon, error) {
	args := m.Called(ctx, adminID, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponAdminService) DeleteCoupon(ctx context.Context, adminID, id primitive.ObjectID) error {
	args := m.Called(ctx, adminID, id)
	return args.Error(0)
}

func (m *MockCouponAdminService) ListCoupons(ctx context.Context, filter *models.CouponFilter, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponAdminService) ListReconciliationQueue(ctx context.Context, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Payment), args.Get(1).(int64), args.Error(2)
}
