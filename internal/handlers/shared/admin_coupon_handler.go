package handlers

import (
	"strconv"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminCouponHandler struct {
	adminService services.CouponAdminService
}

func NewAdminCouponHandler(adminService services.CouponAdminService) *AdminCouponHandler {
	return &AdminCouponHandler{
		adminService: adminService,
	}
}

// CreateCoupon creates a new coupon
func (h *AdminCouponHandler) CreateCoupon(c *gin.Context) {
	var request models.CreateCouponRequest
	if !bindAndValidate(c, &request) {
		return
	}
	adminID, ok := getUserID(c)
	if !ok {
		return
	}

	coupon, err := h.adminService.CreateCoupon(c.Request.Context(), adminID, &request)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Coupon created successfully", coupon)
}

// GetCoupon retrieves a coupon by ID
func (h *AdminCouponHandler) GetCoupon(c *gin.Context) {
	couponID, ok := parseObjectIDParam(c, "id", "coupon")
	if !ok {
		return
	}

	coupon, err := h.adminService.GetCoupon(c.Request.Context(), couponID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved successfully", coupon)
}

// UpdateCoupon applies a partial update to a coupon
func (h *AdminCouponHandler) UpdateCoupon(c *gin.Context) {
	couponID, ok := parseObjectIDParam(c, "id", "coupon")
	if !ok {
		return
	}
	var request models.UpdateCouponRequest
	if !bindAndValidate(c, &request) {
		return
	}
	adminID, ok := getUserID(c)
	if !ok {
		return
	}

	coupon, err := h.adminService.UpdateCoupon(c.Request.Context(), adminID, couponID, &request)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon updated successfully", coupon)
}

// SetCouponStatus activates or deactivates a coupon
func (h *AdminCouponHandler) SetCouponStatus(c *gin.Context) {
	couponID, ok := parseObjectIDParam(c, "id", "coupon")
	if !ok {
		return
	}
	var request models.CouponStatusRequest
	if !bindAndValidate(c, &request) {
		return
	}
	adminID, ok := getUserID(c)
	if !ok {
		return
	}

	coupon, err := h.adminService.SetCouponStatus(c.Request.Context(), adminID, couponID, *request.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Coupon status updated successfully", coupon)
}

// DeleteCoupon removes a coupon that was never redeemed
func (h *AdminCouponHandler) DeleteCoupon(c *gin.Context) {
	couponID, ok := parseObjectIDParam(c, "id", "coupon")
	if !ok {
		return
	}
	adminID, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteCoupon(c.Request.Context(), adminID, couponID); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListCoupons lists coupons with optional is_active and course_id filters
func (h *AdminCouponHandler) ListCoupons(c *gin.Context) {
	filter := &models.CouponFilter{}

	if active := c.Query("is_active"); active != "" {
		isActive, err := strconv.ParseBool(active)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid is_active filter")
			return
		}
		filter.IsActive = &isActive
	}
	if course := c.Query("course_id"); course != "" {
		courseID, err := primitive.ObjectIDFromHex(course)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid course ID")
			return
		}
		filter.CourseID = &courseID
	}

	params := utils.GetPaginationParams(c, "code", "expiry_date", "used_count")

	coupons, total, err := h.adminService.ListCoupons(c.Request.Context(), filter, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Coupons retrieved successfully", coupons, params, total)
}

// ListReconciliationQueue lists captured payments whose coupon was not applied
func (h *AdminCouponHandler) ListReconciliationQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c, "captured_at")
	payments, total, err := h.adminService.ListReconciliationQueue(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Reconciliation queue retrieved successfully", payments, params, total)
}
