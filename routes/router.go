package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/config"
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/middleware"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

const rateLimiterIdleTTL = 10 * time.Minute

type Handlers struct {
	Coupon   *handlers.CouponHandler
	Checkout *handlers.CheckoutHandler
	Admin    *handlers.AdminCouponHandler
	Course   *handlers.CourseHandler
}

// HealthCheck reports the state of one dependency.
type HealthCheck func(ctx context.Context) error

// SetupRouter builds the gin engine with global middleware and all API routes.
func SetupRouter(cfg *config.Config, log *logger.Logger, h *Handlers, checks map[string]HealthCheck) *gin.Engine {
	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(cfg.Security.TrustedProxies)
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	auth := middleware.AuthRequired(cfg.Security.JWTSecret)

	evaluateLimiter := middleware.NewRateLimiter(cfg.Checkout.EvaluateRatePerSec, cfg.Checkout.EvaluateBurst, rateLimiterIdleTTL)

	v1 := router.Group("/api/v1")
	if perMinute := cfg.Security.RateLimitPerMinute; perMinute > 0 {
		apiLimiter := middleware.NewRateLimiter(float64(perMinute)/60, perMinute, rateLimiterIdleTTL)
		v1.Use(middleware.RateLimitMiddleware(apiLimiter))
	}
	{
		SetupCourseRoutes(v1, h.Course)
		SetupCouponRoutes(v1, h.Coupon, auth, middleware.RateLimitMiddleware(evaluateLimiter))
		SetupCheckoutRoutes(v1, h.Checkout, auth)
	}
	SetupAdminRoutes(router.Group(""), h.Admin, auth)

	router.GET("/metrics", middleware.PrometheusHandler())
	router.GET("/health", healthHandler(checks))

	return router
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		components := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				components[name] = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "healthy"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":     state,
			"version":    utils.AppVersion,
			"components": components,
		})
	}
}
