package main

import (
	"net/http"
	"time"

	"classifieds-service/internal/catalog"
	"classifieds-service/internal/coupon"
	"classifieds-service/internal/handler"
	mid "classifieds-service/internal/middleware"
	"classifieds-service/pkg/config"
	"classifieds-service/pkg/database"
	"classifieds-service/pkg/jwtutil"
	"classifieds-service/pkg/logger"
	"classifieds-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting classifieds-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Core services
	catalogSvc := catalog.New(database.GetDB(), catalog.Policy{
		ListingTTL:       appConfig.Catalog.ListingTTL,
		PageSize:         appConfig.Catalog.PageSize,
		AutoApproveAdmin: appConfig.Catalog.AutoApproveAdmin,
	})
	couponSvc := coupon.New(database.GetDB())

	// Periodic sweep keeps stored statuses in step with lazy expiry
	go runSweeper(catalogSvc, appConfig.Catalog.SweepInterval, log)

	// Handlers
	listings := handler.NewListingHandler(catalogSvc)
	categories := handler.NewCategoryHandler(catalogSvc)
	admin := handler.NewAdminHandler(catalogSvc)
	coupons := handler.NewCouponHandler(couponSvc)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public browse routes
	e.GET("/api/listings", listings.Browse(catalog.ViewGeneral))
	e.GET("/api/housing", listings.Browse(catalog.ViewHousing))
	e.GET("/api/jobs", listings.Browse(catalog.ViewJobs))
	e.GET("/api/services", listings.Browse(catalog.ViewServices))
	e.GET("/api/listings/:id", listings.GetListing)
	e.GET("/api/categories", categories.ListCategories)
	e.GET("/api/categories/:slug/subtree", categories.GetSubtree)

	// Authenticated routes
	userAPI := e.Group("/api", mid.AuthMiddleware)
	userAPI.POST("/listings", listings.CreateListing)
	userAPI.PUT("/listings/:id", listings.UpdateListing)
	userAPI.POST("/coupons/:id/claim", coupons.ClaimCoupon)
	userAPI.POST("/coupons/:id/redeem", coupons.RedeemCoupon)

	// Moderation routes - rights are enforced by the core policy
	adminAPI := e.Group("/api/admin", mid.AuthMiddleware)
	adminAPI.PUT("/listings/:id/status", admin.TransitionListing)
	adminAPI.POST("/listings/bulk", admin.BulkModerate)
	adminAPI.POST("/maintenance/sweep", admin.Sweep)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func runSweeper(svc *catalog.Service, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		result, err := svc.Sweep(now)
		if err != nil {
			log.Error("Maintenance sweep failed", zap.Error(err))
			continue
		}
		if result.Expired > 0 || result.Unfeatured > 0 {
			log.Info("Maintenance sweep completed",
				zap.Int64("expired", result.Expired),
				zap.Int64("unfeatured", result.Unfeatured))
		}
	}
}
