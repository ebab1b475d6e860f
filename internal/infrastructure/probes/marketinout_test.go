package probes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testCookie = session.Cookie{Name: "ASPSESSIONIDQWERTYUI", Value: "ABCDEFGHIJKLMNOP"}

func TestMarketInOutLiveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			t.Error("probe request carried no cookie header")
		}
		w.Write([]byte(`<html><body><h1>My Watch Lists</h1><a href="add_watch_list.php">add</a></body></html>`))
	}))
	defer srv.Close()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err != nil {
		t.Fatalf("unexpected probe error: %v", result.Err)
	}
	if !result.Live {
		t.Errorf("expected live, got dead: %s", result.Reason)
	}
}

func TestMarketInOutLoginRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login.php", http.StatusFound)
	}))
	defer srv.Close()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err != nil {
		t.Fatalf("unexpected probe error: %v", result.Err)
	}
	if result.Live {
		t.Error("login redirect classified as live")
	}
	if result.StatusCode != http.StatusFound {
		t.Errorf("redirect was followed: status %d, want %d", result.StatusCode, http.StatusFound)
	}
}

func TestMarketInOutLoginFormServed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><form action="login.php"><input name="password"></form></html>`))
	}))
	defer srv.Close()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err != nil {
		t.Fatalf("unexpected probe error: %v", result.Err)
	}
	if result.Live {
		t.Error("inline login form classified as live")
	}
}

func TestMarketInOutRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err == nil {
		t.Fatal("expected a rate-limit error")
	}
	if result.Err.Kind != session.ErrRateLimited {
		t.Errorf("error kind = %s, want %s", result.Err.Kind, session.ErrRateLimited)
	}
}

func TestMarketInOutAmbiguousFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing recognizable</body></html>`))
	}))
	defer srv.Close()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err != nil {
		t.Fatalf("unexpected probe error: %v", result.Err)
	}
	if !result.Live {
		t.Errorf("ambiguous body should fail open as live, got dead: %s", result.Reason)
	}
}

func TestMarketInOutNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewMarketInOutProber(srv.URL, 1*time.Second, testLogger())
	result := p.Check(context.Background(), testCookie)

	if result.Err == nil {
		t.Fatal("expected a network error")
	}
	if result.Err.Kind != session.ErrNetwork {
		t.Errorf("error kind = %s, want %s", result.Err.Kind, session.ErrNetwork)
	}
	if result.Live {
		t.Error("network error must never read as a live verdict")
	}
}

func TestMarketInOutTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	p := NewMarketInOutProber(srv.URL, 5*time.Second, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	result := p.Check(ctx, testCookie)

	if result.Err == nil {
		t.Fatal("expected a timeout error")
	}
	if result.Err.Kind != session.ErrNetwork {
		t.Errorf("error kind = %s, want %s", result.Err.Kind, session.ErrNetwork)
	}
}
