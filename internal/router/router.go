// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/droplinked/marketplace-backend/internal/config"
	"github.com/droplinked/marketplace-backend/internal/handlers"
	"github.com/droplinked/marketplace-backend/internal/ledger"
	"github.com/droplinked/marketplace-backend/internal/middleware"
	"github.com/droplinked/marketplace-backend/internal/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Services
	tokens := ledger.NewAdapter(db)
	registryService := services.NewRegistryService(db, tokens)
	requestService := services.NewRequestService(db)
	paymentService := services.NewPaymentService(db, cfg, requestService)
	marketplace := services.NewMarketplaceService(db, registryService, requestService, paymentService, tokens)
	authService := services.NewAuthService(db, cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(marketplace, registryService, storageService)
	requestHandler := handlers.NewRequestHandler(marketplace)
	paymentHandler := handlers.NewPaymentHandler(marketplace, paymentService)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
		})
	})

	v1 := r.Group("/v1")
	{
		// Authentication
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:tokenId", productHandler.GetProduct)
			products.POST("/mint", middleware.AuthRequired(), productHandler.Mint)
			products.GET("/:tokenId/balance", middleware.AuthRequired(), productHandler.GetBalance)
			products.POST("/upload", middleware.AuthRequired(), middleware.UploadRateLimit(), productHandler.UploadContent)
		}

		// Publish requests
		requests := v1.Group("/requests")
		requests.Use(middleware.AuthRequired())
		{
			requests.POST("", requestHandler.Create)
			requests.GET("/:id", requestHandler.Get)
			requests.POST("/:id/approve", requestHandler.Approve)
			requests.POST("/:id/disapprove", requestHandler.Disapprove)
			requests.DELETE("/:id", requestHandler.Cancel)
			requests.GET("/index/producer/:accountId/:tokenId", requestHandler.ProducerHasRequest)
			requests.GET("/index/publisher/:accountId/:tokenId", requestHandler.PublisherHasRequest)
		}

		// Payments
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreateIntent)
			payments.POST("/confirm", paymentHandler.Confirm)
			payments.POST("/settle", paymentHandler.Settle)
			payments.GET("/settlements", paymentHandler.GetSettlementHistory)
			payments.GET("/balance", paymentHandler.GetEarningsBalance)
		}
	}

	return r, nil
}
