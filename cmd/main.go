/**
 * @description
 * This is the main entry point for the Dwolla sandbox dashboard backend. It
 * is responsible for initializing all the core components of the service,
 * wiring them together, and starting the HTTP server.
 *
 * Key responsibilities:
 * - Load application configuration from the environment.
 * - Initialize the Dwolla API client (credentials arrive later via the API).
 * - Initialize the in-memory registries for customers, transfers, and webhooks.
 * - Set up the service layer and the HTTP router.
 * - Start the HTTP server and handle graceful shutdown.
 */
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/paylab/dwolla-dashboard/internal/api"
	"github.com/paylab/dwolla-dashboard/internal/app"
	"github.com/paylab/dwolla-dashboard/internal/config"
	"github.com/paylab/dwolla-dashboard/internal/store"
	"github.com/paylab/dwolla-dashboard/pkg/dwolla"
)

func main() {
	// Load .env file for local development. In production, environment
	// variables are set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=main msg=\"no .env file found, using environment variables\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=main msg=\"could not load config\" err=%v", err)
	}
	log.Printf("level=info component=main msg=\"configuration loaded\" environment=%s base_url=%s", cfg.DwollaEnvironment, cfg.DwollaAPIBaseURL)

	client := dwolla.NewClient(cfg.DwollaAPIBaseURL, cfg.DwollaTokenURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)

	service := app.NewService(
		client,
		store.NewMemoryCustomerStore(),
		store.NewMemoryTransferStore(),
		store.NewMemoryWebhookBuffer(),
	)

	router := api.NewRouter(&cfg, service)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("level=info component=main msg=\"starting server\" port=%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("level=fatal component=main msg=\"could not start server\" err=%v", err)
		}
	}()

	// Wait for an interrupt signal for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("level=info component=main msg=\"shutting down server\"")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("level=fatal component=main msg=\"server forced to shutdown\" err=%v", err)
	}
	log.Println("level=info component=main msg=\"server exited\"")
}
