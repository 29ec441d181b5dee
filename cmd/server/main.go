package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-service/config"
	"bookstore-service/internal/api"
	"bookstore-service/internal/broker"
	"bookstore-service/internal/redisclient"
	"bookstore-service/internal/service"
	"bookstore-service/internal/store"
	"bookstore-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting bookstore service")

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer("bookstore-service", cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	docs, closeDocs, err := openDocuments(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open document storage", zap.Error(err))
	}
	defer closeDocs()

	ctx := context.Background()

	catalog, err := store.OpenCatalogStore(ctx, docs)
	if err != nil {
		logger.Fatal("Failed to open catalog", zap.Error(err))
	}
	seq, err := store.OpenSequence(ctx, docs)
	if err != nil {
		logger.Fatal("Failed to open id sequences", zap.Error(err))
	}
	orders, err := store.OpenOrderStore(ctx, docs, seq)
	if err != nil {
		logger.Fatal("Failed to open orders", zap.Error(err))
	}
	deliveries, err := store.OpenDeliveryStore(ctx, docs, seq)
	if err != nil {
		logger.Fatal("Failed to open deliveries", zap.Error(err))
	}
	logger.Info("Stores loaded",
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("books", len(catalog.ListBooks())),
		zap.Int("orders", orders.CountOrders()))

	// optional collaborators stay nil interfaces when disabled
	var idempotency service.IdempotencyStore
	if cfg.Redis.Enabled {
		ttl := time.Duration(cfg.Business.IdempotencyTTLSeconds) * time.Second
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		idempotency = redisClient
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	paymentService := service.NewPaymentService()
	orderService := service.NewOrderService(catalog, orders, paymentService, publisher, idempotency)
	deliveryService := service.NewDeliveryService(deliveries, orders, cfg.Business.VerifyDeliveryOrder, publisher)
	inventoryService := service.NewInventoryService(catalog)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(orderService, deliveryService, inventoryService, cfg.Auth.APIToken)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// openDocuments returns the configured persistence backend and its cleanup
func openDocuments(cfg config.StorageConfig) (store.Documents, func(), error) {
	switch cfg.Backend {
	case config.StorageBackendFile:
		docs, err := store.NewFileDocuments(cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		return docs, func() {}, nil
	case config.StorageBackendPostgres:
		docs, err := store.NewPostgresDocuments(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return docs, func() { docs.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
