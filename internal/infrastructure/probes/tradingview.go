package probes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

const defaultTradingViewEndpoint = "https://www.tradingview.com/api/v1/user/"

// TradingView's user endpoint echoes the account in JSON when the sessionid
// cookie is valid; anonymous callers get an error payload or a redirect to
// the signin page.
var (
	tradingViewLiveMarkers = []string{
		"\"username\"",
		"\"auth_token\"",
	}
	tradingViewLoginMarkers = []string{
		"\"anonymous\"",
		"signin",
		"log in",
	}
	tradingViewRedirectMarkers = []string{"signin", "accounts/signin", "login"}
)

// TradingViewProber probes TradingView using the captured sessionid cookie.
type TradingViewProber struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewTradingViewProber builds the TradingView strategy. An empty endpoint
// selects the production user endpoint.
func NewTradingViewProber(endpoint string, timeout time.Duration, logger *slog.Logger) *TradingViewProber {
	if endpoint == "" {
		endpoint = defaultTradingViewEndpoint
	}
	return &TradingViewProber{
		endpoint: endpoint,
		client:   newProbeClient(timeout),
		logger:   logger,
	}
}

func (p *TradingViewProber) Platform() session.Platform { return session.PlatformTradingView }

// Check classifies one probe response with the same priority order as the
// MarketInOut strategy; the markers differ because this endpoint speaks
// JSON.
func (p *TradingViewProber) Check(ctx context.Context, cookie session.Cookie) Result {
	now := time.Now().UTC()
	status, location, body, perr := fetch(ctx, p.client, p.Platform(), p.endpoint, cookie)
	if perr != nil {
		return Result{CheckedAt: now, Err: perr}
	}

	if isLoginRedirect(status, location, tradingViewRedirectMarkers) {
		return Result{Live: false, Reason: "redirected to signin", StatusCode: status, CheckedAt: now}
	}

	if status == http.StatusTooManyRequests {
		return Result{CheckedAt: now, Err: session.NewRateLimited(p.Platform(), "probe", p.endpoint)}
	}

	if status < 200 || status >= 300 {
		return Result{Live: false, Reason: fmt.Sprintf("unexpected status %d", status), StatusCode: status, CheckedAt: now}
	}

	if containsAny(body, tradingViewLiveMarkers) {
		return Result{Live: true, Reason: "user payload returned", StatusCode: status, CheckedAt: now}
	}

	if containsAny(body, tradingViewLoginMarkers) {
		return Result{Live: false, Reason: "anonymous payload returned", StatusCode: status, CheckedAt: now}
	}

	p.logger.Warn("Ambiguous probe response, treating as live", "platform", p.Platform(), "status", status)
	return Result{Live: true, Reason: "ambiguous response, failing open", StatusCode: status, CheckedAt: now}
}
