package main

import (
	"billing-checkout/internal/client"
	"billing-checkout/internal/config"
	"billing-checkout/internal/logger"
	"billing-checkout/internal/repository"
	"billing-checkout/internal/server"
	"billing-checkout/internal/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitDBClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	billingClient := client.NewBillingClient(&cfg.Billing)

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userMetaRepo := repository.NewUserMetaRepository(db)
	recurringOrderRepo := repository.NewRecurringOrderRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		log.Fatal("seed products", zap.Error(err))
	}

	cartService := service.NewCartService(productRepo, cartRepo)
	orderService := service.NewOrderService(db, productRepo, cartRepo, orderRepo, recurringOrderRepo)
	checkoutService := service.NewCheckoutService(
		billingClient,
		orderRepo,
		cartRepo,
		userMetaRepo,
		recurringOrderRepo,
		cfg.Merchant,
		cfg.BaseURL,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cartService, orderService, checkoutService, cfg.Auth.JWTSecret, log)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
