// Package email delivers re-authentication alerts when a monitored session
// fails.
package email

import (
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/email/templates"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
)

// Client sends alert email through Resend. A nil *Client is a valid no-op
// sender, so callers never need to branch on whether alerting is configured.
type Client struct {
	resend    *resend.Client
	fromEmail string
	toEmail   string
	logger    *logging.ChanneledLogger
}

// NewClient builds an alert client, or returns nil when alerting is not
// configured (no API key or recipient).
func NewClient(apiKey, fromEmail, toEmail string, logger *logging.ChanneledLogger) *Client {
	if apiKey == "" || toEmail == "" {
		logger.Email().Info("Email alerts disabled (RESEND_API_KEY or ALERT_EMAIL_TO not set)")
		return nil
	}

	return &Client{
		resend:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		toEmail:   toEmail,
		logger:    logger,
	}
}

// SendReauthAlert emails the user that a platform session has failed and
// must be re-captured. Failures are logged, never propagated: alerting is
// best-effort and must not affect monitoring.
func (c *Client) SendReauthAlert(status session.HealthStatus) {
	if c == nil {
		return
	}

	platformName := displayName(status.Platform)
	subject := fmt.Sprintf("Re-authentication needed: %s session expired", platformName)

	content := templates.GetReauthAlertContent(templates.ReauthAlertProps{
		PlatformName: platformName,
		FailedSince:  status.LastCheckedAt.Format("Jan 2 15:04 MST"),
		FailureCount: status.ConsecutiveFailures,
	})

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MarketBridge <%s>", c.fromEmail),
		To:      []string{c.toEmail},
		Subject: subject,
		Html:    templates.GetEmailLayout(content),
	}

	if _, err := c.resend.Emails.Send(request); err != nil {
		c.logger.Email().Error("Failed to send re-auth alert", "platform", status.Platform, "error", err.Error())
		return
	}
	c.logger.Email().Info("Re-auth alert sent", "platform", status.Platform)
}

func displayName(p session.Platform) string {
	switch p {
	case session.PlatformMarketInOut:
		return "MarketInOut"
	case session.PlatformTradingView:
		return "TradingView"
	}
	name := string(p)
	if name == "" {
		return "Unknown platform"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
