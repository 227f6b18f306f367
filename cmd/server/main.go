// Package main is the entry point for the inventory ledger API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jomora1/proyvarchar/internal/domain/auth"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/client"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/domain/payments"
	"github.com/jomora1/proyvarchar/internal/domain/profitcut"
	"github.com/jomora1/proyvarchar/internal/domain/purchases"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
	v1 "github.com/jomora1/proyvarchar/internal/infrastructure/http/v1"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres/auth_repo"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/jomora1/proyvarchar/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/jomora1/proyvarchar/pkg/logger"
)

var version = "dev"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)
	saleRepo := ledger_repo.NewSaleRepo(txManager)
	paymentRepo := ledger_repo.NewPaymentRepo(txManager)
	profitCutRepo := ledger_repo.NewProfitCutRepo(txManager)
	purchaseRepo := ledger_repo.NewPurchaseRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	whitelist := auth.ParseWhitelist(mustEnv("AUTH_WHITELIST"))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig(whitelist))

	// --- Domain services ---
	productService := product.NewService(productRepo)
	saleService := sales.NewService(saleRepo, productService, paymentRepo, txManager)
	clientService := client.NewService(clientRepo, saleService)
	allocator := payments.NewAllocator(paymentRepo, saleRepo, txManager)

	cutCfg := profitcut.DefaultConfig()
	if getEnv("CUT_MISSING_PRODUCT", "") == "fail" {
		cutCfg.MissingProduct = profitcut.MissingProductFail
	}
	cutEngine := profitcut.NewEngine(profitCutRepo, saleRepo, productRepo, txManager, cutCfg)

	purchaseService := purchases.NewService(purchaseRepo, productService, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool.Pool,
		Logger:           log,
		Version:          version,
		JWTValidator:     jwtService,
		AuditService:     auditService,
		AuthService:      authService,
		ProductService:   productService,
		ClientService:    clientService,
		SaleService:      saleService,
		PaymentAllocator: allocator,
		ProfitCutEngine:  cutEngine,
		PurchaseService:  purchaseService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
