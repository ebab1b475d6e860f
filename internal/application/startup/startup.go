// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/application/container"
	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/email"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/messaging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/persistence/database"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/persistence/sessionstore"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
	"github.com/StockFoundry/marketbridge-go/internal/presentation/http/server"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("MarketBridge session engine starting...")

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Missing secrets get ephemeral replacements so a dev instance still
	// boots. Sessions encrypted under an ephemeral AES key do not survive a
	// restart.
	if config.JWTSecret == "" {
		if config.JWTSecret, err = security.GenerateSecureKey(64); err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		logger.Startup().Warn("JWT_SECRET not set, generated an ephemeral secret")
	}
	if config.AESKey == "" {
		// 32 hex chars: a 32-byte key once the string hits the cipher.
		if config.AESKey, err = security.GenerateSecureKey(32); err != nil {
			return fmt.Errorf("failed to generate AES key: %w", err)
		}
		logger.Startup().Warn("AES_KEY not set, generated an ephemeral key")
	}

	// Step 2: Database connection
	logger.Startup().Info("Opening session database...")
	db, err := database.New()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.Startup().Info("Database connected", "backend", db.GetConnectionInfo())

	// Step 3: Session store (bootstraps schema)
	store, err := sessionstore.New(db.Conn, config.AESKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	logger.Startup().Info("Session store ready")

	// Step 4: Probe registry
	registry := probes.NewRegistry(
		probes.NewMarketInOutProber("", config.ProbeTimeout, logger.Probe()),
		probes.NewTradingViewProber("", config.ProbeTimeout, logger.Probe()),
	)

	// Step 5: Health monitor and its downstream consumers
	monitor := monitoring.NewHealthMonitor(store, registry, logger,
		config.MonitorProbeInterval, config.MonitorFailureThreshold, config.ProbeTimeout)
	broadcaster := messaging.NewHealthBroadcaster(monitor, logger, config.MonitorBroadcastInterval)
	emailClient := email.NewClient(config.ResendAPIKey, config.AlertEmailFrom, config.AlertEmailTo, logger)

	monitor.SetTransitionHook(func(evt monitoring.HealthEvent) {
		broadcaster.Notify(evt)
		if evt.Current == session.HealthFailed {
			if status, ok := monitor.Status(evt.Identity, evt.Platform); ok {
				go emailClient.SendReauthAlert(status)
			}
		}
	})

	// Step 6: Re-register persisted sessions so monitoring survives restarts
	logger.Startup().Info("Re-registering persisted sessions for monitoring...")
	records, err := store.ListPlatformSessions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}
	for _, rec := range records {
		monitor.Register(rec.Identity, rec.Platform)
	}
	logger.Startup().Info("Persisted sessions re-registered", "count", len(records))

	// Step 7: Start background loops
	monitor.Start()
	go broadcaster.Run()

	// Step 8: Dependency injection container
	appContainer := container.NewContainer(db, store, registry, monitor, broadcaster, emailClient, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 9: HTTP server
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port)

	// Step 10: Graceful shutdown wiring
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"monitoredSessions", len(records),
		"port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Stopping health monitor...")
	monitor.Stop()

	logger.Shutdown().Info("Closing database...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	if err := logger.Close(); err != nil {
		log.Printf("Error closing log files: %v", err)
	}

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
