package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// AuthHandlers contains the admin login endpoint.
type AuthHandlers struct {
	logger *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{logger: logger}
}

type loginRequestBody struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - exchanges the admin password
// for a short-lived JWT, also set as an http-only cookie for the dashboard.
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var body loginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}

	if config.AdminPassword == "" {
		h.logger.Auth().Error("Admin login attempted but ADMIN_PASSWORD is not configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin access not configured"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(config.AdminPassword)) != 1 {
		h.logger.Auth().Warn("Admin login failed", "remoteAddr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	token, err := security.GenerateAdminToken(config.JWTSecret)
	if err != nil {
		h.logger.Auth().Error("Failed to generate admin token", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	h.logger.Auth().Info("Admin login successful", "remoteAddr", c.ClientIP())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("admin_auth", token, 24*60*60, "/", "", config.SessionCookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
