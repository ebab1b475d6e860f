// Package probes implements per-platform liveness checks for bridged
// cookies. Each prober issues one read-only GET against a low-privilege
// endpoint with the candidate cookie as its only credential, and classifies
// the response heuristically: the target sites were never designed as health
// APIs, so classification leans on structural markers and fails open when
// the body is ambiguous.
package probes

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

// maxProbeBodyBytes bounds how much of a platform response is read for
// marker scanning.
const maxProbeBodyBytes = 256 * 1024

// Result is a probe classification. Err is non-nil only for transport-level
// failures (timeout, DNS, reset), which are explicitly not liveness
// verdicts; Live is meaningful only when Err is nil.
type Result struct {
	Live       bool
	Reason     string
	StatusCode int
	CheckedAt  time.Time
	Err        *session.Error
}

// Prober is the per-platform liveness strategy.
type Prober interface {
	Platform() session.Platform
	Check(ctx context.Context, cookie session.Cookie) Result
}

// newProbeClient builds the shared probe transport: redirects disabled so a
// login redirect stays observable as a 3xx with its Location header.
func newProbeClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// fetch performs the single probe GET and returns status, Location header,
// and a bounded read of the body.
func fetch(ctx context.Context, client *http.Client, platform session.Platform, endpoint string, cookie session.Cookie) (int, string, string, *session.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, "", "", session.NewOperationFailed(platform, "probe", err)
	}
	req.Header.Set("Cookie", cookie.Name+"="+cookie.Value)
	req.Header.Set("Accept", "text/html,application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MarketBridge/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", "", session.NewNetworkError(platform, "probe", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBodyBytes))
	if err != nil {
		return 0, "", "", session.NewNetworkError(platform, "probe", endpoint, err)
	}

	return resp.StatusCode, resp.Header.Get("Location"), string(body), nil
}

// isLoginRedirect reports whether a 3xx Location points at a login path.
func isLoginRedirect(status int, location string, markers []string) bool {
	if status < 300 || status >= 400 {
		return false
	}
	loc := strings.ToLower(location)
	for _, m := range markers {
		if strings.Contains(loc, m) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, markers []string) bool {
	lower := strings.ToLower(haystack)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
