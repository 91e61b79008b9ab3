// cmd/terminal/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/barbuddie/pos-terminal/internal/config"
	"github.com/barbuddie/pos-terminal/internal/domain/area"
	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/domain/workflow"
	"github.com/barbuddie/pos-terminal/internal/infrastructure/backend"
	redisdb "github.com/barbuddie/pos-terminal/internal/infrastructure/database/redis"
	httpserver "github.com/barbuddie/pos-terminal/internal/interfaces/http"
	"github.com/barbuddie/pos-terminal/internal/interfaces/http/routes"
	"github.com/barbuddie/pos-terminal/internal/pkg/auth"
	"github.com/barbuddie/pos-terminal/internal/pkg/receipt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"terminal":    cfg.App.TerminalID,
	}).Info("Starting POS terminal")

	// Connect to Redis. The terminal works without it; carts just become
	// memory-only and PIN unlock always hits the backend.
	var cartStore *cart.SnapshotStore
	var pinCache *auth.PinCache
	redisClient, err := redisdb.NewConnection(cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, running without snapshots")
		redisClient = nil
	} else {
		defer redisClient.Close()
		cartStore = cart.NewSnapshotStore(redisClient.GetClient(), cfg.App.TerminalID)
		pinCache = auth.NewPinCache(redisClient.GetClient())
	}

	// Backend session and API client
	session := auth.NewSession(cfg.Backend.BaseURL, logger)
	apiClient := backend.NewClient(cfg.Backend.BaseURL, session, logger,
		backend.WithSessionExpiredHook(func() {
			logger.Warn("Backend session terminated, logging out")
			session.Logout()
		}))

	// Domain services
	cartService := cart.NewService(cartStore, logger)
	if err := cartService.Restore(context.Background()); err != nil {
		logger.WithError(err).Warn("Failed to restore cart snapshot")
	}

	areaManager := area.NewManager(apiClient, cfg.Canvas.Width, cfg.Canvas.Height, logger)
	workflowService := workflow.NewService(apiClient, cartService, logger)
	receiptService := receipt.NewService(receipt.VenueInfo{
		Name:      cfg.Venue.Name,
		Address:   cfg.Venue.Address,
		Phone:     cfg.Venue.Phone,
		VATNumber: cfg.Venue.VATNumber,
		Website:   cfg.Venue.Website,
	}, cfg.Backend.VerifyBaseURL)

	// Create and start HTTP server
	server := httpserver.NewServer(cfg, redisClient, routes.Deps{
		Cart:     cartService,
		Areas:    areaManager,
		Workflow: workflowService,
		Session:  session,
		Pins:     pinCache,
		Receipt:  receiptService,
		Logger:   logger,
	}, logger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logger.Info("Terminal shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
