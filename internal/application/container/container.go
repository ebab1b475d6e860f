// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/StockFoundry/marketbridge-go/internal/application/services"
	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/email"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/messaging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/persistence/database"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	BridgeService   *services.BridgeService
	ResolverService *services.ResolverService

	// Infrastructure
	Database      *database.Database
	Store         session.Store
	ProbeRegistry *probes.Registry
	Monitor       *monitoring.HealthMonitor
	Broadcaster   *messaging.HealthBroadcaster
	EmailClient   *email.Client
	Logger        *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(
	db *database.Database,
	store session.Store,
	registry *probes.Registry,
	monitor *monitoring.HealthMonitor,
	broadcaster *messaging.HealthBroadcaster,
	emailClient *email.Client,
	logger *logging.ChanneledLogger,
) *Container {
	return &Container{
		BridgeService:   services.NewBridgeService(store, registry, monitor, logger),
		ResolverService: services.NewResolverService(store, monitor, logger),

		Database:      db,
		Store:         store,
		ProbeRegistry: registry,
		Monitor:       monitor,
		Broadcaster:   broadcaster,
		EmailClient:   emailClient,
		Logger:        logger,
	}
}
