// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/application/services"
	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// BridgeHandlers contains the cookie submission endpoint.
type BridgeHandlers struct {
	bridgeService *services.BridgeService
	logger        *logging.ChanneledLogger
}

// NewBridgeHandlers creates bridge handlers with injected dependencies
func NewBridgeHandlers(bridgeService *services.BridgeService, logger *logging.ChanneledLogger) *BridgeHandlers {
	return &BridgeHandlers{
		bridgeService: bridgeService,
		logger:        logger,
	}
}

type bridgeRequestBody struct {
	Platform    string `json:"platform" binding:"required"`
	CookieName  string `json:"cookieName" binding:"required"`
	CookieValue string `json:"cookieValue" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	SourceURL   string `json:"sourceUrl"`
	ExtractedAt string `json:"extractedAt"`
}

// PostBridge handles POST /api/v1/session/bridge - accepts a captured cookie
// from the extension, validates and probes it, and on success stores it and
// sets the correlation cookie on the response.
func (h *BridgeHandlers) PostBridge(c *gin.Context) {
	var body bridgeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		serr := session.NewMalformedInput("", "bridge", "invalid request body: "+err.Error())
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	var extractedAt time.Time
	if body.ExtractedAt != "" {
		if t, err := time.Parse(time.RFC3339, body.ExtractedAt); err == nil {
			extractedAt = t
		}
	}

	// Missing cookie is fine; a fresh internal session is minted then.
	existingID, _ := c.Cookie(config.SessionCookieName)

	result, serr := h.bridgeService.Bridge(c.Request.Context(), &services.BridgeRequest{
		Platform:          session.Platform(body.Platform),
		CookieName:        body.CookieName,
		CookieValue:       body.CookieValue,
		Email:             body.Email,
		Password:          body.Password,
		SourceURL:         body.SourceURL,
		ExtractedAt:       extractedAt,
		ExistingSessionID: existingID,
	})
	if serr != nil {
		h.logger.Bridge().Warn("Bridge request rejected", "platform", body.Platform, "kind", serr.Kind)
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.SessionCookieName, result.SessionID,
		int(config.SessionCookieMaxAge.Seconds()), "/", "", config.SessionCookieSecure, true)

	c.JSON(http.StatusOK, gin.H{
		"sessionId": result.SessionID,
		"platform":  result.Platform,
		"minted":    result.MintedSession,
	})
}
