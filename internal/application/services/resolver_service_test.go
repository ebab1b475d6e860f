package services

import (
	"context"
	"testing"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
)

func newResolverFixture(t *testing.T) (*ResolverService, *memStore, *monitoring.HealthMonitor) {
	t.Helper()
	store := newMemStore()
	registry := probes.NewRegistry(
		&stubProber{platform: session.PlatformMarketInOut, result: liveProbe()},
	)
	logger := newTestLogger(t)
	monitor := monitoring.NewHealthMonitor(store, registry, logger, time.Hour, 3, time.Second)
	return NewResolverService(store, monitor, logger), store, monitor
}

const resolverIdentity = session.Identity("cafebabe")

func seedRecord(t *testing.T, store *memStore, internalID string, platform session.Platform) {
	t.Helper()
	err := store.UpsertPlatformSession(context.Background(), &session.PlatformSession{
		Identity:          resolverIdentity,
		Platform:          platform,
		InternalSessionID: internalID,
		Cookie:            session.Cookie{Name: "sessionid", Value: "value"},
		CapturedAt:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestResolveReturnsNoneWhenAbsent(t *testing.T) {
	svc, _, _ := newResolverFixture(t)

	rec, err := svc.Resolve(context.Background(), session.PlatformMarketInOut, resolverIdentity)
	if err != nil {
		t.Fatalf("resolve errored on absence: %v", err)
	}
	if rec != nil {
		t.Error("resolve returned a record for an unknown pair")
	}
}

func TestResolveReturnsRecordRegardlessOfHealth(t *testing.T) {
	svc, store, monitor := newResolverFixture(t)
	seedRecord(t, store, "sess-1", session.PlatformMarketInOut)

	// Health is advisory: resolution must not consult the monitor, so a
	// registered-but-unprobed entry changes nothing.
	monitor.Register(resolverIdentity, session.PlatformMarketInOut)

	rec, err := svc.Resolve(context.Background(), session.PlatformMarketInOut, resolverIdentity)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rec == nil {
		t.Fatal("resolve returned none for a stored record")
	}
	if rec.Cookie.Value != "value" {
		t.Errorf("resolved cookie value = %q", rec.Cookie.Value)
	}
}

func TestResolveByInternalID(t *testing.T) {
	svc, store, _ := newResolverFixture(t)
	seedRecord(t, store, "sess-2", session.PlatformMarketInOut)

	rec, err := svc.ResolveByInternalID(context.Background(), "sess-2", session.PlatformMarketInOut)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rec == nil || rec.Identity != resolverIdentity {
		t.Error("internal-id lookup did not return the seeded record")
	}

	rec, err = svc.ResolveByInternalID(context.Background(), "sess-2", session.PlatformTradingView)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if rec != nil {
		t.Error("lookup returned a record for the wrong platform")
	}
}

func TestStatusReflectsMonitor(t *testing.T) {
	svc, _, monitor := newResolverFixture(t)

	if _, ok := svc.Status(session.PlatformMarketInOut, resolverIdentity); ok {
		t.Error("status reported for an unregistered pair")
	}

	monitor.Register(resolverIdentity, session.PlatformMarketInOut)
	status, ok := svc.Status(session.PlatformMarketInOut, resolverIdentity)
	if !ok {
		t.Fatal("status missing for a registered pair")
	}
	if status.State != session.HealthUnknown {
		t.Errorf("fresh status = %s, want %s", status.State, session.HealthUnknown)
	}
}

func TestLogoutRemovesAllCorrelatedState(t *testing.T) {
	svc, store, monitor := newResolverFixture(t)
	ctx := context.Background()

	store.CreateInternalSession(ctx, &session.InternalSession{
		ID:        "sess-3",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	seedRecord(t, store, "sess-3", session.PlatformMarketInOut)
	seedRecord(t, store, "sess-3", session.PlatformTradingView)
	monitor.Register(resolverIdentity, session.PlatformMarketInOut)
	monitor.Register(resolverIdentity, session.PlatformTradingView)

	if err := svc.Logout(ctx, "sess-3"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if store.recordCount() != 0 {
		t.Errorf("%d platform records survived logout", store.recordCount())
	}
	if len(monitor.Snapshot()) != 0 {
		t.Error("monitor entries survived logout")
	}
	if sess, _ := store.GetInternalSession(ctx, "sess-3"); sess != nil {
		t.Error("internal session survived logout")
	}
}

func TestLogoutUnknownSessionIsClean(t *testing.T) {
	svc, _, _ := newResolverFixture(t)

	if err := svc.Logout(context.Background(), "never-existed"); err != nil {
		t.Fatalf("logout of unknown session errored: %v", err)
	}
}
