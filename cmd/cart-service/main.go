package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pawmart/cart-service/internal/cartsync"
	"github.com/pawmart/cart-service/internal/checkout"
	"github.com/pawmart/cart-service/internal/config"
	"github.com/pawmart/cart-service/internal/db"
	"github.com/pawmart/cart-service/internal/order"
	"github.com/pawmart/cart-service/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "cart-service").Logger()

	log.Info().Msg("Cart service starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbConn, err := db.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	var gw cartsync.Gateway
	switch cfg.Sync.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		gw = cartsync.NewRedisStore(client)
	case "http":
		gw = cartsync.NewHTTPGateway(cfg.Sync.BaseURL, nil)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	orchestrator := checkout.NewOrchestrator(
		checkout.NewHTTPStockChecker(cfg.Backend.StockCheckURL, httpClient),
		checkout.NewHTTPOrderPlacer(cfg.Backend.OrderURL, httpClient),
	)
	archive := order.NewPostgresRepository(dbConn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      transport.NewRouter(ctx, gw, orchestrator, archive),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
