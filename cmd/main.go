package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableserve/internal/adapter/cache"
	"tableserve/internal/adapter/events"
	"tableserve/internal/adapter/logger"
	"tableserve/internal/adapter/postgres"
	"tableserve/internal/adapter/rabbitmq"
	"tableserve/internal/adapter/ws"
	"tableserve/internal/app/auth"
	"tableserve/internal/app/billing"
	"tableserve/internal/app/menu"
	"tableserve/internal/app/order"
	"tableserve/internal/app/table"
	"tableserve/internal/config"

	amqpAdapter "tableserve/internal/adapter/amqp"
	httpAdapter "tableserve/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: api-server, notification-subscriber")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lgr := logger.New(*mode)

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]any{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "api-server":
		runAPIServer(ctx, cfg, mqConn, lgr)
	case "notification-subscriber":
		runNotificationSubscriber(ctx, cancel, mqConn, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runAPIServer(ctx context.Context, cfg *config.Config, mqConn *rabbitmq.Connection, lgr logger.Logger) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]any{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	tableRepo := postgres.NewTableRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	billRepo := postgres.NewBillRepository(db)
	txnRepo := postgres.NewTransactionRepository(db)
	userRepo := postgres.NewUserRepository(db)
	menuRepo := postgres.NewMenuRepository(db)

	// All committed events go to connected websocket clients and to the
	// fanout exchange for out-of-process subscribers.
	hub := ws.NewHub(lgr)
	go hub.Run(ctx)
	publisher := events.NewFanout(hub, rabbitmq.NewPublisher(mqConn))

	menuCache := cache.NewMenuCache(cfg.MenuTTL())

	services := httpAdapter.Services{
		Auth:    auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.TokenTTL(), lgr),
		Orders:  order.NewService(orderRepo, menuRepo, publisher, lgr),
		Tables:  table.NewService(tableRepo, cfg.Tables.Count, lgr),
		Billing: billing.NewService(billRepo, orderRepo, txnRepo, menuRepo, publisher, cfg.Billing.TaxRate, lgr),
		Menu:    menu.NewService(menuRepo, menuCache, lgr),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpAdapter.NewRouter(services, hub, lgr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API server started on port %d", cfg.HTTP.Port), "startup", map[string]any{
		"port": cfg.HTTP.Port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down API server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, cancel context.CancelFunc, mqConn *rabbitmq.Connection, lgr logger.Logger) {
	consumer := rabbitmq.NewConsumer(mqConn, lgr)
	handler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification subscriber started", "startup", nil)

	go func() {
		if err := consumer.ConsumeEvents(ctx, handler.HandleEvent); err != nil {
			lgr.Error("consumer_error", "Error consuming events", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
	cancel()
}
