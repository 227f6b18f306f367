// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jomora1/proyvarchar/internal/domain/auth"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/client"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/domain/payments"
	"github.com/jomora1/proyvarchar/internal/domain/profitcut"
	"github.com/jomora1/proyvarchar/internal/domain/purchases"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/handlers"
	"github.com/jomora1/proyvarchar/internal/infrastructure/http/v1/middleware"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Version string

	JWTValidator middleware.JWTValidator
	AuditService *postgres.AuditService

	AuthService      *auth.Service
	ProductService   *product.Service
	ClientService    *client.Service
	SaleService      *sales.Service
	PaymentAllocator *payments.Allocator
	ProfitCutEngine  *profitcut.Engine
	PurchaseService  *purchases.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery first, error handler closest to handlers.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	productHandler := handlers.NewProductHandler(cfg.ProductService)
	clientHandler := handlers.NewClientHandler(cfg.ClientService)
	saleHandler := handlers.NewSaleHandler(cfg.SaleService)
	paymentHandler := handlers.NewPaymentHandler(cfg.PaymentAllocator)
	profitCutHandler := handlers.NewProfitCutHandler(cfg.ProfitCutEngine)
	purchaseHandler := handlers.NewPurchaseHandler(cfg.PurchaseService)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))
		if cfg.AuditService != nil {
			protected.Use(middleware.Audit(cfg.AuditService))
		}

		productGroup := protected.Group("/products")
		{
			productGroup.POST("", productHandler.Create)
			productGroup.GET("", productHandler.List)
			productGroup.GET("/:code", productHandler.Get)
			productGroup.PUT("/:code", productHandler.Update)
			productGroup.DELETE("/:code", productHandler.Delete)
		}

		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.Create)
			clientGroup.GET("", clientHandler.List)
			clientGroup.GET("/:id", clientHandler.Get)
			clientGroup.GET("/:id/history", clientHandler.History)
			clientGroup.PUT("/:id", clientHandler.Update)
			clientGroup.DELETE("/:id", clientHandler.Delete)
		}

		saleGroup := protected.Group("/sales")
		{
			saleGroup.POST("", saleHandler.Create)
			saleGroup.GET("", saleHandler.List)
			saleGroup.GET("/:id", saleHandler.Get)
			saleGroup.POST("/:id/payments", paymentHandler.Apply)
			saleGroup.GET("/:id/payments", paymentHandler.ListBySale)
		}

		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.GET("", paymentHandler.List)
			paymentGroup.POST("/cascade", paymentHandler.Cascade)
		}

		cutGroup := protected.Group("/profit-cuts")
		{
			// Settlement is an owner-level operation.
			cutGroup.POST("", middleware.RequireRole(string(auth.RoleAdmin)), profitCutHandler.Create)
			cutGroup.GET("", profitCutHandler.List)
			cutGroup.GET("/last", profitCutHandler.GetLast)
			cutGroup.GET("/:id", profitCutHandler.Get)
		}

		purchaseGroup := protected.Group("/purchases")
		{
			purchaseGroup.POST("", purchaseHandler.Create)
			purchaseGroup.GET("", purchaseHandler.List)
			purchaseGroup.GET("/summary", purchaseHandler.Summary)
			purchaseGroup.GET("/:id", purchaseHandler.Get)
		}

		if cfg.AuditService != nil {
			auditHandler := handlers.NewAuditHandler(cfg.AuditService)
			protected.GET("/audit/:type/:id",
				middleware.RequireRole(string(auth.RoleAdmin)), auditHandler.History)
		}
	}

	return router
}
