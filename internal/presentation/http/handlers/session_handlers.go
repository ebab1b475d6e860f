package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/application/services"
	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// SessionHandlers contains the session status, resolve, and logout endpoints.
type SessionHandlers struct {
	resolverService *services.ResolverService
	logger          *logging.ChanneledLogger
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(resolverService *services.ResolverService, logger *logging.ChanneledLogger) *SessionHandlers {
	return &SessionHandlers{
		resolverService: resolverService,
		logger:          logger,
	}
}

// GetStatus handles GET /api/v1/session/status?platform= - reports whether
// the caller's correlation cookie maps to a stored session and what the
// monitor currently believes about it.
func (h *SessionHandlers) GetStatus(c *gin.Context) {
	platform := session.Platform(c.Query("platform"))
	if !platform.IsValid() {
		serr := session.NewMalformedInput(platform, "status", "unsupported platform")
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	internalID, err := c.Cookie(config.SessionCookieName)
	if err != nil || internalID == "" {
		c.JSON(http.StatusOK, gin.H{"hasSession": false})
		return
	}

	rec, rerr := h.resolverService.ResolveByInternalID(c.Request.Context(), internalID, platform)
	if rerr != nil {
		serr := session.NewOperationFailed(platform, "status", rerr)
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"hasSession": false})
		return
	}

	response := gin.H{
		"hasSession": true,
		"platform":   rec.Platform,
		"capturedAt": rec.CapturedAt,
		"updatedAt":  rec.UpdatedAt,
	}
	if health, ok := h.resolverService.Status(platform, rec.Identity); ok {
		response["health"] = health
	}

	c.JSON(http.StatusOK, response)
}

// PostLogout handles POST /api/v1/session/logout - deletes every platform
// record tied to the caller's correlation cookie and clears it.
func (h *SessionHandlers) PostLogout(c *gin.Context) {
	internalID, err := c.Cookie(config.SessionCookieName)
	if err != nil || internalID == "" {
		c.JSON(http.StatusOK, gin.H{"loggedOut": false})
		return
	}

	if lerr := h.resolverService.Logout(c.Request.Context(), internalID); lerr != nil {
		serr := session.NewOperationFailed("", "logout", lerr)
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	c.SetCookie(config.SessionCookieName, "", -1, "/", "", config.SessionCookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}

type resolveRequestBody struct {
	Platform string `json:"platform" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostResolve handles POST /api/v1/session/resolve - the internal read API.
// It derives the identity from the submitted credentials and returns record
// metadata. The raw cookie value is never echoed over HTTP; in-process
// callers go through the resolver service directly.
func (h *SessionHandlers) PostResolve(c *gin.Context) {
	var body resolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		serr := session.NewMalformedInput("", "resolve", "invalid request body: "+err.Error())
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	platform := session.Platform(body.Platform)
	if !platform.IsValid() {
		serr := session.NewMalformedInput(platform, "resolve", "unsupported platform")
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}

	identity := security.DeriveIdentity(body.Email, body.Password, config.IdentityHashIterations)

	rec, rerr := h.resolverService.Resolve(c.Request.Context(), platform, identity)
	if rerr != nil {
		serr := session.NewOperationFailed(platform, "resolve", rerr)
		c.JSON(serr.HTTPStatus, gin.H{"error": serr})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}

	response := gin.H{
		"found":      true,
		"platform":   rec.Platform,
		"cookieName": rec.Cookie.Name,
		"sourceUrl":  rec.SourceURL,
		"capturedAt": rec.CapturedAt,
		"updatedAt":  rec.UpdatedAt,
	}
	if health, ok := h.resolverService.Status(platform, identity); ok {
		response["health"] = health
	}

	c.JSON(http.StatusOK, response)
}
