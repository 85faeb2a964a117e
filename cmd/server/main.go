package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/scheduler"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/pkg/events"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/payment"
	"github.com/ikkim/storefront-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	logger.Info("Starting storefront server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it logged-out sessions are not blacklisted
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, session revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	var revoker session.Revoker
	if client := redis.GetClient(); client != nil {
		revoker = redis.NewSessionBlacklist(client)
	}
	sessions := session.NewManager(session.Options{
		Secret:     cfg.Session.Secret,
		Lifetime:   cfg.Session.Lifetime,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
	}, revoker)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", err)
		}
	}()

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(customerRepo)
	catalogService := service.NewCatalogService(db.GetDB(), productRepo)
	cartService := service.NewCartService(db.GetDB(), cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(db.GetDB(), customerRepo, cartRepo, productRepo, orderRepo, payment.NewSimulatedGateway(), publisher)

	// Initialize controllers
	healthController := controller.NewHealthController(db.GetDB())
	authController := controller.NewAuthController(authService, cartService, checkoutService)
	productController := controller.NewProductController(catalogService, db.DemoCatalog, cfg.IsDevelopment())
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(checkoutService)

	// Start background jobs
	cartCleanup := scheduler.NewCartCleanupScheduler(cartService, cfg.Cart.CleanupSchedule, cfg.Cart.AnonymousRetention)
	if err := cartCleanup.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		healthController,
		authController,
		productController,
		cartController,
		orderController,
		sessions,
		cfg,
	)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
