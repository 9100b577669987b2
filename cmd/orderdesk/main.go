package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/yorkbites/orderdesk/config"
	"github.com/yorkbites/orderdesk/internal/delivery"
	"github.com/yorkbites/orderdesk/internal/distance"
	handler "github.com/yorkbites/orderdesk/internal/handler/http"
	"github.com/yorkbites/orderdesk/internal/logger"
	"github.com/yorkbites/orderdesk/internal/middleware"
	"github.com/yorkbites/orderdesk/internal/notifier"
	"github.com/yorkbites/orderdesk/internal/ordernum"
	"github.com/yorkbites/orderdesk/internal/repository"
	"github.com/yorkbites/orderdesk/internal/repository/postgres"
	"github.com/yorkbites/orderdesk/internal/service"
	"github.com/yorkbites/orderdesk/internal/worker"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// load delivery pricing rules
	deliveryCfg, err := config.LoadDeliveryConfig(cfg.DeliveryRulesPath)
	if err != nil {
		logger.Log.Fatal("Error loading delivery rules", zap.Error(err))
	}

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// counter store for order numbers
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// confirmation publisher
	amqpNotifier, err := notifier.NewAMQPNotifier(cfg.AMQPURL)
	if err != nil {
		logger.Log.Fatal("Error connecting to RabbitMQ", zap.Error(err))
	}
	defer amqpNotifier.Close()

	// dependency injection
	distanceClient := distance.NewClient(cfg.DistanceAddr)
	calculator := delivery.NewCalculator(*deliveryCfg, distanceClient, cfg.RestaurantAddress)
	generator := ordernum.NewGenerator(ordernum.NewRedisCounter(rdb), cfg.OrderPrefix)

	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, calculator, generator, amqpNotifier)
	orderHandler := handler.NewOrderHandler(orderService)
	deliveryHandler := handler.NewDeliveryHandler(orderService)

	// retry failed confirmation sends in the background
	processor := worker.NewConfirmationProcessor(orderService)
	go processor.ProcessConfirmations(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Get("/api/orders/{number}", orderHandler.GetOrder())
	router.Post("/api/orders/{number}/status", orderHandler.UpdateOrderStatus())
	router.Post("/api/delivery/quote", deliveryHandler.QuoteDeliveryFee())

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
