package routes

import (
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupCouponRoutes sets up routes for coupon discovery and preview
func SetupCouponRoutes(r *gin.RouterGroup, couponHandler *handlers.CouponHandler, auth, evaluateLimit gin.HandlerFunc) {
	r.GET("/courses/:id/coupons", auth, couponHandler.ListApplicable)

	coupons := r.Group("/coupons")
	coupons.Use(auth)
	{
		coupons.POST("/evaluate", evaluateLimit, couponHandler.Evaluate)
	}
}
