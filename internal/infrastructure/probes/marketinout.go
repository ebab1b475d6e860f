package probes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

const defaultMarketInOutEndpoint = "https://www.marketinout.com/watch_list/watch_lists.php"

// MarketInOut liveness markers. The watch-list page only renders its list
// table for an authenticated ASP session; anonymous requests either redirect
// to login.php or serve the login form inline.
var (
	marketInOutLiveMarkers = []string{
		"watch_lists",
		"my watch lists",
		"add_watch_list",
	}
	marketInOutLoginMarkers = []string{
		"login.php",
		"name=\"password\"",
		"sign in to your account",
	}
	marketInOutRedirectMarkers = []string{"login", "signin"}
)

// MarketInOutProber probes MarketInOut using the captured ASPSESSIONID
// cookie.
type MarketInOutProber struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewMarketInOutProber builds the MarketInOut strategy. An empty endpoint
// selects the production watch-list page; tests point it at a fixture
// server.
func NewMarketInOutProber(endpoint string, timeout time.Duration, logger *slog.Logger) *MarketInOutProber {
	if endpoint == "" {
		endpoint = defaultMarketInOutEndpoint
	}
	return &MarketInOutProber{
		endpoint: endpoint,
		client:   newProbeClient(timeout),
		logger:   logger,
	}
}

func (p *MarketInOutProber) Platform() session.Platform { return session.PlatformMarketInOut }

// Check classifies one probe response. Priority order: login redirect is
// dead; non-2xx (except 429) is dead; authenticated markers are live; login
// form without them is dead; anything else fails open as live because a
// false dead verdict forces a spurious re-authentication prompt.
func (p *MarketInOutProber) Check(ctx context.Context, cookie session.Cookie) Result {
	now := time.Now().UTC()
	status, location, body, perr := fetch(ctx, p.client, p.Platform(), p.endpoint, cookie)
	if perr != nil {
		return Result{CheckedAt: now, Err: perr}
	}

	if isLoginRedirect(status, location, marketInOutRedirectMarkers) {
		return Result{Live: false, Reason: "redirected to login", StatusCode: status, CheckedAt: now}
	}

	if status == http.StatusTooManyRequests {
		return Result{CheckedAt: now, Err: session.NewRateLimited(p.Platform(), "probe", p.endpoint)}
	}

	if status < 200 || status >= 300 {
		return Result{Live: false, Reason: fmt.Sprintf("unexpected status %d", status), StatusCode: status, CheckedAt: now}
	}

	if containsAny(body, marketInOutLiveMarkers) {
		return Result{Live: true, Reason: "watch list page served", StatusCode: status, CheckedAt: now}
	}

	if containsAny(body, marketInOutLoginMarkers) {
		return Result{Live: false, Reason: "login form served", StatusCode: status, CheckedAt: now}
	}

	p.logger.Warn("Ambiguous probe response, treating as live", "platform", p.Platform(), "status", status)
	return Result{Live: true, Reason: "ambiguous response, failing open", StatusCode: status, CheckedAt: now}
}
