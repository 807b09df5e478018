// Package main is the entry point for the ortoflow API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ortoflow/internal/bootstrap"
	"ortoflow/internal/config"
	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/internal/domain/intake"
	"ortoflow/internal/domain/orderparse"
	"ortoflow/internal/infrastructure/extraction"
	v1 "ortoflow/internal/infrastructure/http/v1"
	"ortoflow/internal/infrastructure/http/v1/handlers"
	"ortoflow/internal/infrastructure/numerator"
	"ortoflow/pkg/logger"
)

var version = "dev"

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting ortoflow server", "version", version, "driver", cfg.Database.Driver)

	// --- Storage ---
	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer storage.Close()
	log.Info("database connection established")

	// --- Numbering ---
	loc, _ := cfg.Numbering.Location() // validated by config.Load
	numbering := numerator.New(storage.Sequences, numerator.WithLocation(loc))

	// --- Order intake ---
	if cfg.Extraction.APIKey == "" {
		log.Warnw("no extraction API key configured, order parses will be degraded",
			"env", cfg.Extraction.APIKeyEnv)
	}
	extractor := extraction.New(extraction.Config{
		APIKey:        cfg.Extraction.APIKey,
		BaseURL:       cfg.Extraction.BaseURL,
		Model:         cfg.Extraction.Model,
		Timeout:       cfg.Extraction.Timeout,
		MaxRetries:    cfg.Extraction.MaxRetries,
		RatePerMinute: cfg.Extraction.RatePerMinute,
		Lenient:       cfg.Extraction.Lenient,
		Location:      loc,
	})
	products := product.NewService(storage.Products, storage.Tx)
	intakeService := intake.NewService(products, orderparse.NewInterpreter(extractor), storage.Journal)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Version:   version,
		Numbering: numbering,
		Intake:    intakeService,
		Products:  products,
		HealthChecks: map[string]handlers.Pinger{
			"database": handlers.PingFunc(storage.Ping),
		},
		Development: cfg.App.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Extraction.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
