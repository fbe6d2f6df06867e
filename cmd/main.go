package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-content-storefront/config"
	"github.com/oksasatya/go-content-storefront/internal/container"
	"github.com/oksasatya/go-content-storefront/internal/domain/repository"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/filestore"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-content-storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/go-content-storefront/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-content-storefront/internal/interface/middleware"
	"github.com/oksasatya/go-content-storefront/internal/router"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
	"github.com/oksasatya/go-content-storefront/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Redis backs the rate limiter whenever it answers, and the store when selected
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if cfg.StoreDriver == "redis" {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		logger.WithError(err).Warn("redis unavailable, rate limiting per process")
		_ = rdb.Close()
	} else {
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()
	container.SetStore(store)

	files, closeFiles, err := openFiles(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeFiles()
	if err := files.Init(ctx); err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	container.SetFiles(files)

	// Elasticsearch (optional; search falls back to a catalog scan)
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.PingES(ctx, es)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			container.SetES(es)
		}
	}

	// RabbitMQ (optional; catalog notifications)
	if cfg.RabbitMQURL != "" && cfg.NotifyEmail != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("notifications disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Gin engine and global middleware
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.RequestMetrics())
	collector, _ := container.GetMetrics()
	r.Use(collector.Middleware())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Content-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{"store": cfg.StoreDriver, "storage": cfg.StorageDriver}).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("memory store: data is lost on restart")
		return memory.NewStore(), noop, nil
	case "redis":
		return redisstore.NewStore(container.GetRedis()), noop, nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		// Run migrations using database/sql with pgx stdlib
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("migration failed: %w", err)
		}
		container.SetPGPool(pool)
		return pginfra.NewKVStore(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openFiles(ctx context.Context, cfg *config.Config) (repository.FileStorage, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case "local":
		fs, err := filestore.NewLocal(cfg.ContentDir, cfg.StaticDir)
		return fs, noop, err
	case "gcs":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, err
		}
		container.SetGCS(client)
		fs, err := filestore.NewGCS(client, cfg.GCSBucket)
		return fs, closer(client), err
	case "s3":
		fs, err := filestore.NewS3(filestore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		})
		return fs, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
