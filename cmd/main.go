package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/catalog"
	"catalog-service/internal/clients"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/metrics"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/subscribers"
	"catalog-service/internal/syncer"
)

// @title Catalog Service API
// @version 1.0
// @description Product catalog browsing service with filtering, sorting and pagination
// @BasePath /
func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	switch {
	case cfg.LogLevel != "":
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	case cfg.Environment == "production":
		logger.SetLevel(logrus.InfoLevel)
	default:
		logger.SetLevel(logrus.DebugLevel)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Redis is optional; without it the repository serves straight from
	// the database.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Invalid REDIS_URL, continuing without cache")
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				logger.WithError(err).Warn("Redis unreachable, continuing without cache")
				redisClient = nil
			}
			cancel()
		}
	}

	// NATS is optional; without it events are dropped and remote sync
	// requests are unavailable.
	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.NatsURL, logger)
		if err != nil {
			logger.WithError(err).Warn("NATS unreachable, continuing without events")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	store := repository.NewProductsRepository(db, redisClient, logger)
	service := catalog.NewService(store, logger)
	feedSyncer := syncer.NewSyncer(service, publisher, logger,
		clients.NewDummyJSONClient(cfg.DummyJSONFeedURL, logger),
		clients.NewFakeStoreClient(cfg.FakeStoreFeedURL, logger),
	)

	if publisher != nil {
		syncSub := subscribers.NewSyncSubscriber(publisher.Conn(), feedSyncer, logger)
		if err := syncSub.Start(); err != nil {
			logger.WithError(err).Warn("Failed to start sync subscriber")
		} else {
			defer syncSub.Stop()
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(metrics.Middleware())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	productsHandler := handlers.NewProductsHandler(service, feedSyncer, publisher, logger)
	importHandler := handlers.NewImportHandler(service, logger)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productsHandler.ListProducts)
			products.POST("", productsHandler.CreateProduct)
			products.GET("/categories", productsHandler.ListCategories)
			products.GET("/brands", productsHandler.ListBrands)
			products.GET("/price-range", productsHandler.GetPriceRange)
			products.POST("/sync/:source", productsHandler.SyncProducts)
			products.POST("/import", importHandler.ImportProducts)
			products.GET("/import/template", importHandler.GetImportTemplate)
			products.GET("/:id", productsHandler.GetProduct)
			products.PUT("/:id", productsHandler.UpdateProduct)
			products.DELETE("/:id", productsHandler.DeleteProduct)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("Catalog service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down catalog service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Catalog service stopped")
}
