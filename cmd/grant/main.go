// Command grant adds a content entry to a user's library and records a
// manual order for it.
//
//	go run ./cmd/grant -identity KevinIsom -content deep-dive
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-content-storefront/config"
	app "github.com/oksasatya/go-content-storefront/internal/application"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/kvrepo"
	pginfra "github.com/oksasatya/go-content-storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
)

func main() {
	identity := flag.String("identity", "", "user identity to grant to")
	contentID := flag.String("content", "", "content id to grant")
	flag.Parse()
	if *identity == "" || *contentID == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-grant", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store repository.Store
	switch cfg.StoreDriver {
	case "redis":
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		store = redisstore.NewStore(rdb)
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		store = pginfra.NewKVStore(pool)
	default:
		log.Fatalf("STORE_DRIVER=%s is not shared with the server; use redis or postgres", cfg.StoreDriver)
	}

	svc := app.NewGrantService(kvrepo.NewContentRepository(store), kvrepo.NewOrderRepository(store), kvrepo.NewUserRepository(store), logger)
	order, err := svc.Grant(ctx, *identity, *contentID)
	if err != nil {
		log.Fatalf("grant failed: %v", err)
	}
	fmt.Printf("granted %s to %s (order %s, amount %.2f)\n", order.ContentID, order.Identity, order.ID, order.Amount)
}
