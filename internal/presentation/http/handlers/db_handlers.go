package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/persistence/database"
)

// DatabaseHandlers contains the storage connectivity endpoint.
type DatabaseHandlers struct {
	db     *database.Database
	logger *logging.ChanneledLogger
}

// NewDBHandlers creates database handlers with injected dependencies
func NewDBHandlers(db *database.Database, logger *logging.ChanneledLogger) *DatabaseHandlers {
	return &DatabaseHandlers{
		db:     db,
		logger: logger,
	}
}

// GetDatabaseStatus handles GET /api/v1/db/status - checks storage
// connectivity with a trivial query.
func (h *DatabaseHandlers) GetDatabaseStatus(c *gin.Context) {
	start := time.Now()

	if err := h.db.Status(); err != nil {
		h.logger.Database().Error("Database status check failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusOK, gin.H{
			"status":       "error",
			"backend":      h.db.GetConnectionInfo(),
			"error":        err.Error(),
			"responseTime": time.Since(start).String(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"backend":      h.db.GetConnectionInfo(),
		"responseTime": time.Since(start).String(),
	})
}
