package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"featherlite/internal/config"
	"featherlite/internal/db"
	"featherlite/internal/httpserver"
	"featherlite/internal/ratelimit"
	orderrepo "featherlite/internal/repository/order"
	productrepo "featherlite/internal/repository/product"
	reviewrepo "featherlite/internal/repository/review"
	"featherlite/internal/shopify"
	adminsvc "featherlite/internal/service/admin"
	cartsvc "featherlite/internal/service/cart"
	catalogsvc "featherlite/internal/service/catalog"
	checkoutsvc "featherlite/internal/service/checkout"
	orderssvc "featherlite/internal/service/orders"
	reviewsvc "featherlite/internal/service/review"
	syncsvc "featherlite/internal/service/sync"
)

const (
	loginAttempts = 5
	loginWindow   = time.Minute
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
	}

	shopifyClient := shopify.NewClient(cfg, logger)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	var cartStore cartsvc.Store
	if cfg.StorefrontConfigured() {
		cartStore = cartsvc.NewRemoteStore(shopifyClient)
		logger.Printf("cart: using live storefront API")
	} else {
		cartStore = cartsvc.NewMockStore()
		logger.Printf("cart: storefront unconfigured, using in-memory mock")
	}

	var snapshots cartsvc.SnapshotStore
	var limiter ratelimit.Limiter
	if redisClient != nil {
		snapshots = cartsvc.NewRedisSnapshots(redisClient)
		limiter = ratelimit.NewRedis(redisClient, loginAttempts, loginWindow)
	} else {
		snapshots = cartsvc.NewMemorySnapshots()
		limiter = ratelimit.NewMemory(loginAttempts, loginWindow)
	}

	adminService := adminsvc.New(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.AdminSecret, limiter, logger)
	cartService := cartsvc.New(cartStore, snapshots, logger)
	catalogService := catalogsvc.New(productRepo, reviewRepo, logger)
	checkoutService := checkoutsvc.New(productRepo, shopifyClient, logger)
	ordersService := orderssvc.New(orderRepo, cfg.ShopifyWebhookSecret, logger)
	reviewService := reviewsvc.New(reviewRepo, productRepo, logger)
	syncService := syncsvc.New(shopifyClient, productRepo, ordersService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Config:   cfg,
		Carts:    cartService,
		Catalog:  catalogService,
		Checkout: checkoutService,
		Orders:   ordersService,
		Reviews:  reviewService,
		Sync:     syncService,
		Admin:    adminService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
