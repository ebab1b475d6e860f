// Package monitoring runs the background health loop that re-probes every
// bridged session and tracks its consecutive-failure state.
package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
)

/*
Locking notes, same discipline as the rest of the codebase:

  - mu guards entries, started, and every HealthStatus inside an entry.
  - Probes run outside the lock; only the result application re-acquires it.
  - The per-entry inFlight flag is the only cross-probe exclusion needed:
    while a probe for a key is running, ticks skip that key (not queue it),
    so slow upstreams can never pile up or double-count failures.
*/

// HealthEvent describes one state transition, delivered to the optional
// transition hook (websocket broadcast, email alert).
type HealthEvent struct {
	Identity  session.Identity    `json:"-"`
	Platform  session.Platform    `json:"platform"`
	Key       string              `json:"key"`
	Previous  session.HealthState `json:"previous"`
	Current   session.HealthState `json:"current"`
	Failures  int                 `json:"failures"`
	Timestamp time.Time           `json:"timestamp"`
}

type entry struct {
	status   session.HealthStatus
	inFlight bool
}

// HealthMonitor is the explicitly constructed, process-wide health service.
// Start and Stop are idempotent; Status never blocks on a probe.
type HealthMonitor struct {
	store        session.Store
	registry     *probes.Registry
	logger       *logging.ChanneledLogger
	interval     time.Duration
	threshold    int
	probeTimeout time.Duration

	mu           sync.RWMutex
	entries      map[string]*entry
	started      bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	onTransition func(HealthEvent)
}

// NewHealthMonitor builds a monitor over the given store and probe registry.
func NewHealthMonitor(store session.Store, registry *probes.Registry, logger *logging.ChanneledLogger, interval time.Duration, threshold int, probeTimeout time.Duration) *HealthMonitor {
	if threshold <= 0 {
		threshold = 3
	}
	return &HealthMonitor{
		store:        store,
		registry:     registry,
		logger:       logger,
		interval:     interval,
		threshold:    threshold,
		probeTimeout: probeTimeout,
		entries:      make(map[string]*entry),
	}
}

// SetTransitionHook installs the callback invoked on every state change.
// Must be called before Start.
func (m *HealthMonitor) SetTransitionHook(fn func(HealthEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// Start launches the tick loop. Calling Start on a running monitor is a
// no-op.
func (m *HealthMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.started = true

	go m.run(ctx)
	m.logger.Monitor().Info("Health monitor started", "interval", m.interval.String(), "threshold", m.threshold)
}

// Stop halts the tick loop and waits for in-flight probes to finish. No new
// ticks are scheduled after Stop returns. Idempotent.
func (m *HealthMonitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Monitor().Info("Health monitor stopped")
}

func (m *HealthMonitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Register adds an (identity, platform) pair to the watch registry. A second
// Register for the same pair is a no-op: no duplicate entries, counters, or
// probes.
func (m *HealthMonitor) Register(identity session.Identity, platform session.Platform) {
	key := session.Key(identity, platform)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; exists {
		return
	}
	m.entries[key] = &entry{
		status: session.HealthStatus{
			Identity: identity,
			Platform: platform,
			State:    session.HealthUnknown,
		},
	}
	m.logger.Monitor().Info("Session registered for monitoring", "platform", platform)
}

// RecordResult folds an externally obtained probe outcome into the entry,
// so a probe already paid for (the bridge liveness check) seeds health state
// instead of leaving it unknown until the next tick.
func (m *HealthMonitor) RecordResult(identity session.Identity, platform session.Platform, result probes.Result) {
	m.applyResult(session.Key(identity, platform), result)
}

// Unregister drops a pair from the registry. Called when the underlying
// session is deleted.
func (m *HealthMonitor) Unregister(identity session.Identity, platform session.Platform) {
	key := session.Key(identity, platform)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists {
		return
	}
	delete(m.entries, key)
	m.logger.Monitor().Info("Session unregistered from monitoring", "platform", platform)
}

// Status returns the current health for a pair. The second return is false
// when the pair is not registered. Never blocks on a probe.
func (m *HealthMonitor) Status(identity session.Identity, platform session.Platform) (session.HealthStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, exists := m.entries[session.Key(identity, platform)]
	if !exists {
		return session.HealthStatus{}, false
	}
	return e.status, true
}

// Snapshot returns a copy of every health entry, for the monitor API and
// the websocket broadcaster.
func (m *HealthMonitor) Snapshot() []session.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]session.HealthStatus, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.status)
	}
	return out
}

// tick launches one background probe per registered key that is not already
// being probed.
func (m *HealthMonitor) tick(ctx context.Context) {
	m.mu.Lock()
	var due []string
	for key, e := range m.entries {
		if !e.inFlight {
			e.inFlight = true
			due = append(due, key)
		}
	}
	m.mu.Unlock()

	for _, key := range due {
		m.wg.Add(1)
		go m.probeKey(ctx, key)
	}
}

func (m *HealthMonitor) probeKey(ctx context.Context, key string) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		if e, exists := m.entries[key]; exists {
			e.inFlight = false
		}
		m.mu.Unlock()
	}()

	m.mu.RLock()
	e, exists := m.entries[key]
	if !exists {
		m.mu.RUnlock()
		return
	}
	identity := e.status.Identity
	platform := e.status.Platform
	m.mu.RUnlock()

	rec, err := m.store.GetPlatformSession(ctx, identity, platform)
	if err != nil {
		m.logger.Monitor().Error("Failed to load session for probe", "platform", platform, "error", err.Error())
		return
	}
	if rec == nil {
		// Session was deleted underneath us; stop watching it.
		m.Unregister(identity, platform)
		return
	}

	prober, ok := m.registry.For(platform)
	if !ok {
		m.logger.Monitor().Error("No prober for platform", "platform", platform)
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	result := prober.Check(probeCtx, rec.Cookie)
	cancel()

	m.applyResult(key, result)
}

// applyResult folds one probe outcome into the entry's counter and state.
// A transport failure counts against the session the same as a dead verdict:
// sustained unreachability is indistinguishable from death for the caller.
func (m *HealthMonitor) applyResult(key string, result probes.Result) {
	m.mu.Lock()
	e, exists := m.entries[key]
	if !exists {
		m.mu.Unlock()
		return
	}

	prev := e.status.State
	e.status.LastCheckedAt = result.CheckedAt

	if result.Err == nil && result.Live {
		e.status.ConsecutiveFailures = 0
		e.status.State = session.HealthHealthy
		e.status.LastError = nil
	} else {
		e.status.ConsecutiveFailures++
		if result.Err != nil {
			e.status.LastError = result.Err
		} else {
			e.status.LastError = session.NewSessionExpired(e.status.Platform, "probe", result.Reason)
		}
		if e.status.ConsecutiveFailures >= m.threshold {
			e.status.State = session.HealthFailed
		} else {
			e.status.State = session.HealthDegraded
		}
	}

	evt := HealthEvent{
		Identity:  e.status.Identity,
		Platform:  e.status.Platform,
		Key:       key,
		Previous:  prev,
		Current:   e.status.State,
		Failures:  e.status.ConsecutiveFailures,
		Timestamp: result.CheckedAt,
	}
	hook := m.onTransition
	m.mu.Unlock()

	if evt.Current != evt.Previous {
		m.logger.Monitor().Info("Health state changed",
			"platform", evt.Platform, "previous", evt.Previous, "current", evt.Current, "failures", evt.Failures)
		if hook != nil {
			hook(evt)
		}
	}
}
