package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"falcon-storefront/internal/config"
	"falcon-storefront/internal/db"
	"falcon-storefront/internal/httpserver"
	"falcon-storefront/internal/mail"
	"falcon-storefront/internal/repository/cartstore"
	orderrepo "falcon-storefront/internal/repository/order"
	productrepo "falcon-storefront/internal/repository/product"
	tokenrepo "falcon-storefront/internal/repository/token"
	userrepo "falcon-storefront/internal/repository/user"
	cartsvc "falcon-storefront/internal/service/cart"
	checkoutsvc "falcon-storefront/internal/service/checkout"
	customersvc "falcon-storefront/internal/service/customer"
	ordersvc "falcon-storefront/internal/service/order"
	productsvc "falcon-storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var carts cartstore.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		carts = cartstore.NewRedisStore(client, cfg.CartTTL)
		logger.Printf("using redis cart store at %s", cfg.RedisAddr)
	} else {
		carts = cartstore.NewMemoryStore()
		logger.Printf("REDIS_ADDR not set, carts are kept in process memory")
	}

	mailer := mail.NewLogSender(logger)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo)
	cartService := cartsvc.New(carts, productRepo)
	customerService := customersvc.New(userRepo, tokenRepo, mailer, logger)
	checkoutService := checkoutsvc.New(orderRepo, cartService, mailer, logger)
	orderService := ordersvc.New(orderRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		CustomerSvc: customerService,
		Users:       userRepo,
	}, cfg.CORSOrigins)
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
