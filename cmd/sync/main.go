// Command sync pulls products and orders from the platform admin API into
// local storage. Run it from cron or by hand after catalog changes.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"featherlite/internal/config"
	"featherlite/internal/db"
	orderrepo "featherlite/internal/repository/order"
	productrepo "featherlite/internal/repository/product"
	"featherlite/internal/shopify"
	orderssvc "featherlite/internal/service/orders"
	syncsvc "featherlite/internal/service/sync"
)

func main() {
	_ = godotenv.Load()
	skipProducts := flag.Bool("skip-products", false, "do not sync products")
	skipOrders := flag.Bool("skip-orders", false, "do not sync orders")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[sync] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	client := shopify.NewClient(cfg, logger)
	productRepo := productrepo.NewPostgres(pool, logger)
	orderRepo := orderrepo.NewPostgres(pool, logger)
	ordersService := orderssvc.New(orderRepo, cfg.ShopifyWebhookSecret, logger)
	syncService := syncsvc.New(client, productRepo, ordersService, logger)

	if !*skipProducts {
		count, err := syncService.Products(ctx)
		if err != nil {
			logger.Fatalf("sync products: %v", err)
		}
		logger.Printf("synced %d products", count)
	}
	if !*skipOrders {
		count, err := syncService.Orders(ctx)
		if err != nil {
			logger.Fatalf("sync orders: %v", err)
		}
		logger.Printf("synced %d orders", count)
	}
}
