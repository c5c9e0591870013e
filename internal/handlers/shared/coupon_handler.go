package handlers

import (
	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// ListApplicable returns the coupons the caller can still use on a course
func (h *CouponHandler) ListApplicable(c *gin.Context) {
	courseID, ok := parseObjectIDParam(c, "id", "course")
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	coupons, err := h.couponService.ListApplicable(c.Request.Context(), courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupons retrieved successfully", coupons)
}

// Evaluate previews a coupon against a course without redeeming it
func (h *CouponHandler) Evaluate(c *gin.Context) {
	var request models.EvaluateCouponRequest
	if !bindAndValidate(c, &request) {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	courseID, _ := primitive.ObjectIDFromHex(request.CourseID)
	result, err := h.couponService.Preview(c.Request.Context(), request.Code, courseID, userID, request.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon applied successfully", result)
}
