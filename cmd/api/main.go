package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopease-backend/internal/client"
	"shopease-backend/internal/config"
	"shopease-backend/internal/logger"
	"shopease-backend/internal/repository"
	"shopease-backend/internal/server"
	"shopease-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const cartTTL = 7 * 24 * time.Hour

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

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitSqliteClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	rdb, err := client.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal("init redis", zap.Error(err))
	}

	gateway := client.NewStripeGateway(&cfg.Stripe)
	rates := client.NewRatesClient(&cfg.Rates, log)

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	cartRepo := repository.NewCartRepository(rdb, cartTTL)

	if err := productRepo.Seed(context.Background()); err != nil {
		log.Fatal("seed products", zap.Error(err))
	}

	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		orderRepo,
		webhookEventRepo,
		gateway,
		rates,
		cfg.BaseURL,
		log,
	)
	studentService := service.NewStudentService(
		studentRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
	)

	srv := server.NewServer(cfg, log, productRepo, cartService, checkoutService, studentService)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
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
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
