package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/config"
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/mongodb"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/cache"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/database"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/events"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/payment"
	"github.com/narendra12543/Learning-Management-System-sub001/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.Log.Level),
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Caller:  cfg.Log.Caller,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoDB.Close(); err != nil {
			appLogger.WithError(err).Error("Failed to close MongoDB connection")
		}
	}()

	if cfg.Database.RunMigrations {
		if err := database.NewMigrator(mongoDB.Database, appLogger).Up(context.Background()); err != nil {
			appLogger.WithError(err).Fatal("Failed to run migrations")
		}
	}

	checks := map[string]routes.HealthCheck{"mongodb": mongoDB.Ping}

	// Cache is optional; course reads fall through to Mongo without it.
	var courseCache mongodb.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			KeyPrefix:    "lms:",
		})
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, course cache disabled")
		} else {
			defer redisCache.Close()
			courseCache = redisCache
			checks["redis"] = redisCache.Ping
		}
	}

	gateway, err := newGateway(cfg.Payment)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to configure payment gateway")
	}

	publisher, err := newPublisher(cfg.Events, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to configure event publisher")
	}

	// Repositories
	couponRepo := mongodb.NewCouponRepository(mongoDB.Database)
	redemptionRepo := mongodb.NewRedemptionRepository(mongoDB.Database)
	paymentRepo := mongodb.NewPaymentRepository(mongoDB.Database)
	courseRepo := mongodb.NewCourseRepository(mongoDB.Database, courseCache, cfg.Redis.CourseTTL)
	userRepo := mongodb.NewUserRepository(mongoDB.Database)
	txManager := mongodb.NewTransactionManager(mongoDB)

	// Services
	couponService := services.NewCouponService(couponRepo, redemptionRepo, courseRepo, appLogger)
	checkoutService := services.NewCheckoutService(
		cfg.Checkout, couponService,
		couponRepo, redemptionRepo, paymentRepo, courseRepo, userRepo,
		txManager, gateway, publisher, appLogger,
	)
	adminService := services.NewCouponAdminService(cfg.Checkout, couponRepo, paymentRepo, appLogger)
	courseService := services.NewCourseService(courseRepo)

	router := routes.SetupRouter(cfg, appLogger, &routes.Handlers{
		Coupon:   handlers.NewCouponHandler(couponService),
		Checkout: handlers.NewCheckoutHandler(checkoutService),
		Admin:    handlers.NewAdminCouponHandler(adminService),
		Course:   handlers.NewCourseHandler(courseService),
	}, checks)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting %s %s on %s", utils.AppName, cfg.App.Version, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}
}

func newGateway(cfg *config.PaymentConfig) (payment.Gateway, error) {
	switch cfg.DefaultProvider {
	case "razorpay":
		if cfg.Razorpay.KeyID == "" || cfg.Razorpay.KeySecret == "" {
			return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
		}
		return payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret), nil
	case "stripe":
		if cfg.Stripe.SecretKey == "" {
			return nil, errors.New("STRIPE_SECRET_KEY is required")
		}
		return payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.PublishableKey), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.DefaultProvider)
	}
}

func newPublisher(cfg *config.EventsConfig, log *logger.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		return events.NewLogPublisher(log), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return events.NewSNSPublisher(ctx, cfg.Region, cfg.TopicARN)
}
