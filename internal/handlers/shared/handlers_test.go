package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *utils.APIError `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func withUser(userID primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextUserID, userID)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrCouponNotFound, http.StatusNotFound},
		{services.ErrCouponExpired, http.StatusUnprocessableEntity},
		{services.ErrPerUserLimitReached, http.StatusUnprocessableEntity},
		{services.ErrAmountMismatch, http.StatusConflict},
		{services.ErrAlreadyEnrolled, http.StatusConflict},
		{services.ErrSignatureInvalid, http.StatusBadRequest},
		{services.ErrGatewayUnavailable, http.StatusServiceUnavailable},
		{services.ErrVerificationTimeout, http.StatusGatewayTimeout},
		{services.ErrPaymentCancelled, http.StatusPaymentRequired},
		{services.ErrCommitFailed, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", services.ErrOrderNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusForError(tt.err), tt.err.Error())
	}
}

func TestCouponHandlerEvaluate(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	newRouter := func(svc *MockCouponService) *gin.Engine {
		r := gin.New()
		r.POST("/coupons/evaluate", withUser(userID), NewCouponHandler(svc).Evaluate)
		return r
	}

	t.Run("success", func(t *testing.T) {
		svc := new(MockCouponService)
		result := &models.DiscountResult{CouponCode: "SAVE10", OriginalAmount: 100000, DiscountAmount: 10000, FinalAmount: 90000}
		svc.On("Preview", mock.Anything, "SAVE10", courseID, userID, int64(0)).Return(result, nil).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/coupons/evaluate",
			fmt.Sprintf(`{"code":"SAVE10","course_id":"%s"}`, courseID.Hex()))

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.DiscountResult
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(90000), got.FinalAmount)
		svc.AssertExpectations(t)
	})

	t.Run("validation error never reaches service", func(t *testing.T) {
		svc := new(MockCouponService)
		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/coupons/evaluate", `{"code":"!","course_id":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "code")
		assert.Contains(t, env.Error.Details, "course_id")
		svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("coupon rejection carries kind", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("Preview", mock.Anything, "OLD", courseID, userID, int64(5000)).Return(nil, services.ErrCouponExpired).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/coupons/evaluate",
			fmt.Sprintf(`{"code":"OLD","course_id":"%s","amount":5000}`, courseID.Hex()))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "COUPON_EXPIRED", env.Error.Code)
		assert.Equal(t, "coupon has expired", env.Error.Message)
	})
}

func TestCouponHandlerListApplicable(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	svc := new(MockCouponService)
	svc.On("ListApplicable", mock.Anything, courseID, userID).
		Return([]*models.CouponSummary{{Code: "FLAT300"}, {Code: "TEN"}}, nil).Once()

	r := gin.New()
	r.GET("/courses/:id/coupons", withUser(userID), NewCouponHandler(svc).ListApplicable)

	w, env := doJSON(t, r, http.MethodGet, "/courses/"+courseID.Hex()+"/coupons", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.CouponSummary
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "FLAT300", got[0].Code)

	w, _ = doJSON(t, r, http.MethodGet, "/courses/bad/coupons", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestCheckoutHandlerCreateOrder(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()

	newRouter := func(svc *MockCheckoutService) *gin.Engine {
		r := gin.New()
		r.POST("/checkout/orders", withUser(userID), NewCheckoutHandler(svc).CreateOrder)
		return r
	}

	t.Run("created", func(t *testing.T) {
		svc := new(MockCheckoutService)
		ref := &models.OrderRef{GatewayOrderID: "order_1", Amount: 90000, Status: models.PaymentStatusCreated}
		svc.On("CreateOrder", mock.Anything, &services.CreateOrderInput{
			UserID: userID, CourseID: courseID, FinalAmount: 90000, CouponCode: "SAVE10",
		}).Return(ref, nil).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/orders",
			fmt.Sprintf(`{"course_id":"%s","final_amount":90000,"coupon_code":"SAVE10"}`, courseID.Hex()))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Order created successfully", env.Message)
		svc.AssertExpectations(t)
	})

	t.Run("zero final amount is accepted", func(t *testing.T) {
		svc := new(MockCheckoutService)
		svc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in *services.CreateOrderInput) bool {
			return in.FinalAmount == 0
		})).Return(&models.OrderRef{Status: models.PaymentStatusCaptured, Enrollment: &models.EnrollmentResult{Enrolled: true}}, nil).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/orders",
			fmt.Sprintf(`{"course_id":"%s","final_amount":0,"coupon_code":"FREE100"}`, courseID.Hex()))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Enrolled successfully", env.Message)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		svc := new(MockCheckoutService)
		svc.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, services.ErrAmountMismatch).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/orders",
			fmt.Sprintf(`{"course_id":"%s","final_amount":1}`, courseID.Hex()))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "AMOUNT_MISMATCH", env.Error.Code)
	})

	t.Run("missing final amount", func(t *testing.T) {
		svc := new(MockCheckoutService)
		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/orders",
			fmt.Sprintf(`{"course_id":"%s"}`, courseID.Hex()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Details, "final_amount")
	})
}

func TestCheckoutHandlerVerifyPayment(t *testing.T) {
	userID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	body := fmt.Sprintf(`{"gateway_payment_id":"pay_1","gateway_order_id":"order_1","signature":"sig","course_id":"%s"}`, courseID.Hex())

	newRouter := func(svc *MockCheckoutService) *gin.Engine {
		r := gin.New()
		r.POST("/checkout/verify", withUser(userID), NewCheckoutHandler(svc).VerifyPayment)
		return r
	}

	t.Run("verified", func(t *testing.T) {
		svc := new(MockCheckoutService)
		svc.On("VerifyAndCommit", mock.Anything, mock.Anything).
			Return(&models.EnrollmentResult{Enrolled: true, Status: models.PaymentStatusCaptured}, nil).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/verify", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Payment verified successfully", env.Message)
	})

	t.Run("integrity failures use a generic message", func(t *testing.T) {
		svc := new(MockCheckoutService)
		svc.On("VerifyAndCommit", mock.Anything, mock.Anything).Return(nil, services.ErrSignatureInvalid).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/verify", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "SIGNATURE_INVALID", env.Error.Code)
		assert.Equal(t, utils.ErrPaymentNotConfirmed, env.Error.Message)
	})

	t.Run("coupon race lost still reports enrollment", func(t *testing.T) {
		svc := new(MockCheckoutService)
		result := &models.EnrollmentResult{Enrolled: true, NeedsReconciliation: true, FinalAmount: 100000}
		svc.On("VerifyAndCommit", mock.Anything, mock.Anything).Return(result, services.ErrCouponRaceLost).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/verify", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, msgCouponNotApplied, env.Message)
		var got models.EnrollmentResult
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.NeedsReconciliation)
	})

	t.Run("internal errors are hidden", func(t *testing.T) {
		svc := new(MockCheckoutService)
		svc.On("VerifyAndCommit", mock.Anything, mock.Anything).Return(nil, errors.New("mongo exploded")).Once()

		w, _ := doJSON(t, newRouter(svc), http.MethodPost, "/checkout/verify", body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "mongo exploded")
	})
}

func TestCheckoutHandlerReportFailure(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := new(MockCheckoutService)
	svc.On("ReportFailure", mock.Anything, &services.ReportFailureInput{
		UserID: userID, GatewayOrderID: "order_9", Reason: "closed", Cancelled: true,
	}).Return(&models.Payment{Status: models.PaymentStatusFailed}, services.ErrPaymentCancelled).Once()

	r := gin.New()
	r.POST("/checkout/failure", withUser(userID), NewCheckoutHandler(svc).ReportFailure)

	w, env := doJSON(t, r, http.MethodPost, "/checkout/failure", `{"gateway_order_id":"order_9","reason":"closed","cancelled":true}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "PAYMENT_CANCELLED", env.Error.Code)
	svc.AssertExpectations(t)
}

func TestCheckoutHandlerListMyPayments(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := new(MockCheckoutService)
	svc.On("ListPayments", mock.Anything, userID, mock.Anything).
		Return([]*models.Payment{{Receipt: "rcpt_1"}}, int64(1), nil).Once()

	r := gin.New()
	r.GET("/payments/me", withUser(userID), NewCheckoutHandler(svc).ListMyPayments)

	w, _ := doJSON(t, r, http.MethodGet, "/payments/me?page=1&page_size=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rcpt_1")

	r = gin.New()
	r.GET("/payments/me", NewCheckoutHandler(svc).ListMyPayments)
	w, _ = doJSON(t, r, http.MethodGet, "/payments/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCouponHandler(t *testing.T) {
	adminID := primitive.NewObjectID()
	couponID := primitive.NewObjectID()

	newRouter := func(svc *MockCouponAdminService) *gin.Engine {
		h := NewAdminCouponHandler(svc)
		r := gin.New()
		g := r.Group("/admin", withUser(adminID))
		g.POST("/coupons", h.CreateCoupon)
		g.GET("/coupons", h.ListCoupons)
		g.PATCH("/coupons/:id/status", h.SetCouponStatus)
		g.DELETE("/coupons/:id", h.DeleteCoupon)
		return r
	}

	t.Run("create duplicate", func(t *testing.T) {
		svc := new(MockCouponAdminService)
		svc.On("CreateCoupon", mock.Anything, adminID, mock.Anything).Return(nil, services.ErrCouponCodeTaken).Once()

		w, env := doJSON(t, newRouter(svc), http.MethodPost, "/admin/coupons",
			`{"code":"SPRING","discount_type":"fixed","discount_value":500,"usage_limit":10,"expiry_date":"2099-01-01T00:00:00Z"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "COUPON_CODE_TAKEN", env.Error.Code)
	})

	t.Run("status requires is_active", func(t *testing.T) {
		svc := new(MockCouponAdminService)
		w, _ := doJSON(t, newRouter(svc), http.MethodPatch, "/admin/coupons/"+couponID.Hex()+"/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		svc.On("SetCouponStatus", mock.Anything, adminID, couponID, false).Return(&models.Coupon{ID: couponID}, nil).Once()
		w, _ = doJSON(t, newRouter(svc), http.MethodPatch, "/admin/coupons/"+couponID.Hex()+"/status", `{"is_active":false}`)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockCouponAdminService)
		svc.On("DeleteCoupon", mock.Anything, adminID, couponID).Return(nil).Once()
		w, _ := doJSON(t, newRouter(svc), http.MethodDelete, "/admin/coupons/"+couponID.Hex(), "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		svc.On("DeleteCoupon", mock.Anything, adminID, couponID).Return(services.ErrCouponInUse).Once()
		w, _ = doJSON(t, newRouter(svc), http.MethodDelete, "/admin/coupons/"+couponID.Hex(), "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list filters", func(t *testing.T) {
		svc := new(MockCouponAdminService)
		svc.On("ListCoupons", mock.Anything, mock.MatchedBy(func(f *models.CouponFilter) bool {
			return f.IsActive != nil && *f.IsActive && f.CourseID == nil
		}), mock.Anything).Return([]*models.Coupon{}, int64(0), nil).Once()

		w, _ := doJSON(t, newRouter(svc), http.MethodGet, "/admin/coupons?is_active=true", "")
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, newRouter(svc), http.MethodGet, "/admin/coupons?is_active=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertExpectations(t)
	})
}
