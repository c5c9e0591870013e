package routes

import (
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes sets up routes for the order, verify and failure flow
func SetupCheckoutRoutes(r *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, auth gin.HandlerFunc) {
	checkout := r.Group("/checkout")
	checkout.Use(auth)
	{
		checkout.POST("/orders", checkoutHandler.CreateOrder)
		checkout.POST("/verify", checkoutHandler.VerifyPayment)
		checkout.POST("/failure", checkoutHandler.ReportFailure)
	}

	payments := r.Group("/payments")
	payments.Use(auth)
	{
		payments.GET("/me", checkoutHandler.ListMyPayments)
	}
}
