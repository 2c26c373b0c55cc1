package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rowanmarsh/verdi/internal"
	"github.com/rowanmarsh/verdi/internal/billing"
	"github.com/rowanmarsh/verdi/internal/event"
	"github.com/rowanmarsh/verdi/internal/handler"
	"github.com/rowanmarsh/verdi/internal/postgres"
	"github.com/rowanmarsh/verdi/internal/redis"
	"github.com/rowanmarsh/verdi/internal/service"
	"github.com/rowanmarsh/verdi/internal/shipping"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Redis: basket store and pipeline cache
	redisOpts, err := goredis.ParseURL(cfg.RedisUrl)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	redisClient := goredis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Info("Redis connection established")

	baskets := redis.NewBasketStore(redisClient, redis.DefaultBasketTTL)
	cache := redis.NewTagCache(redisClient)

	// Event dispatcher and handlers
	dispatcher := event.NewDispatcher(logger)
	service.RegisterEventHandlers(dispatcher, store, logger)

	// Optional NATS relay for external consumers
	if cfg.Nats.Url != "" {
		nc, err := nats.Connect(cfg.Nats.Url, nats.Name("verdi"))
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer nc.Close()

		relay := event.NewRelay(nc, cfg.Nats.SubjectPrefix, logger)
		relay.Register(dispatcher)
		logger.Info("NATS relay enabled", "prefix", cfg.Nats.SubjectPrefix)
	}

	// Billing provider
	var provider billing.Provider
	providerName := cfg.Payment.Provider
	switch providerName {
	case "stripe":
		provider = billing.NewStripeProvider(cfg.Payment.StripeSecretKey)
	default:
		provider = billing.NewMockProvider()
	}
	logger.Info("Billing provider initialized", "provider", providerName)

	// Services
	v := validator.New()
	fees := shipping.DefaultTable()

	productService := service.NewProductService(store, cache, store, dispatcher, v, logger)
	basketService := service.NewBasketService(baskets, v, logger)
	checkoutService := service.NewCheckoutService(store, baskets, cache, fees, store, dispatcher, v, logger)
	orderService := service.NewOrderService(store, cache, store, dispatcher, v, logger)
	paymentService := service.NewPaymentService(store, provider, cache, store, dispatcher, v, providerName, cfg.Payment.Currency, logger)
	addressService := service.NewAddressService(store, store, dispatcher, v, logger)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())

	h := handler.New(productService, basketService, checkoutService, orderService, paymentService, addressService, logger)
	h.Register(e)

	// Serve until interrupted, then drain in-flight requests
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("Starting server", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
