package handlers

import (
	"errors"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgCouponNotApplied = "Enrollment completed but the coupon could not be applied, the payment is under review"

type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// CreateOrder creates a payment and its gateway order
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var request models.CreateOrderRequest
	if !bindAndValidate(c, &request) {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	courseID, _ := primitive.ObjectIDFromHex(request.CourseID)
	ref, err := h.checkoutService.CreateOrder(c.Request.Context(), &services.CreateOrderInput{
		UserID:      userID,
		CourseID:    courseID,
		FinalAmount: *request.FinalAmount,
		CouponCode:  request.CouponCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if ref.Enrollment != nil {
		utils.CreatedResponse(c, "Enrolled successfully", ref)
		return
	}
	utils.CreatedResponse(c, "Order created successfully", ref)
}

// VerifyPayment confirms a gateway payment and enrolls the caller
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var request models.VerifyPaymentRequest
	if !bindAndValidate(c, &request) {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	courseID, _ := primitive.ObjectIDFromHex(request.CourseID)
	result, err := h.checkoutService.VerifyAndCommit(c.Request.Context(), &services.VerifyPaymentInput{
		UserID:           userID,
		CourseID:         courseID,
		GatewayPaymentID: request.GatewayPaymentID,
		GatewayOrderID:   request.GatewayOrderID,
		Signature:        request.Signature,
		CouponCode:       request.CouponCode,
	})
	if err != nil {
		// The payment was captured at full price; the student is enrolled.
		if result != nil && errors.Is(err, services.ErrCouponRaceLost) {
			_ = c.Error(err)
			utils.SuccessResponse(c, msgCouponNotApplied, result)
			return
		}
		respondError(c, err)
		return
	}

	if result.Replayed {
		utils.SuccessResponse(c, "Payment already verified", result)
		return
	}
	utils.SuccessResponse(c, "Payment verified successfully", result)
}

// ReportFailure records a failed or cancelled gateway checkout
func (h *CheckoutHandler) ReportFailure(c *gin.Context) {
	var request models.PaymentFailureRequest
	if !bindAndValidate(c, &request) {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	_, err := h.checkoutService.ReportFailure(c.Request.Context(), &services.ReportFailureInput{
		UserID:         userID,
		GatewayOrderID: request.GatewayOrderID,
		Reason:         request.Reason,
		Cancelled:      request.Cancelled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment status recorded", nil)
}

// ListMyPayments returns the caller's payment history
func (h *CheckoutHandler) ListMyPayments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c, "final_amount", "captured_at")
	payments, total, err := h.checkoutService.ListPayments(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Payments retrieved successfully", payments, params, total)
}
