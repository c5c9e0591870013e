package routes

import (
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up coupon management and reconciliation routes
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminCouponHandler, auth gin.HandlerFunc) {
	admin := r.Group("/admin")
	admin.Use(auth, middleware.AdminRequired())
	{
		admin.POST("/coupons", adminHandler.CreateCoupon)
		admin.GET("/coupons", adminHandler.ListCoupons)
		admin.GET("/coupons/:id", adminHandler.GetCoupon)
		admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
		admin.PATCH("/coupons/:id/status", adminHandler.SetCouponStatus)
		admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

		admin.GET("/payments/reconciliation", adminHandler.ListReconciliationQueue)
	}
}
