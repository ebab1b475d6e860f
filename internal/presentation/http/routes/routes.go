// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/application/container"
	"github.com/StockFoundry/marketbridge-go/internal/presentation/http/handlers"
	"github.com/StockFoundry/marketbridge-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	bridgeHandlers := handlers.NewBridgeHandlers(container.BridgeService, container.Logger)
	sessionHandlers := handlers.NewSessionHandlers(container.ResolverService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.Logger)
	monitorHandlers := handlers.NewMonitorHandlers(container.Monitor, container.Broadcaster, container.Logger)
	dbHandlers := handlers.NewDBHandlers(container.Database, container.Logger)

	api := r.Group("/api/v1")
	{
		// Extension-facing session endpoints
		sessionGroup := api.Group("/session")
		{
			sessionGroup.POST("/bridge", bridgeHandlers.PostBridge)
			sessionGroup.GET("/status", sessionHandlers.GetStatus)
			sessionGroup.POST("/logout", sessionHandlers.PostLogout)
			sessionGroup.POST("/resolve", middleware.AdminAuthMiddleware(), sessionHandlers.PostResolve)
		}

		// Admin dashboard endpoints
		monitorGroup := api.Group("/monitor")
		monitorGroup.Use(middleware.AdminAuthMiddleware())
		{
			monitorGroup.GET("/health", monitorHandlers.GetHealth)
			monitorGroup.GET("/ws", monitorHandlers.GetHealthStream)
		}

		api.POST("/auth/login", authHandlers.PostLogin)

		// Database status
		api.GET("/db/status", dbHandlers.GetDatabaseStatus)
	}

	return r
}
