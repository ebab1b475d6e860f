// Package services provides application-level orchestration for the session
// engine: the bridge write path and the resolver read path.
package services

import (
	"context"
	"time"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/probes"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// BridgeRequest is one cookie submission from the extension, already bound
// from JSON by the handler. Email and Password are used only to derive the
// identity partition key.
type BridgeRequest struct {
	Platform          session.Platform
	CookieName        string
	CookieValue       string
	Email             string
	Password          string
	SourceURL         string
	ExtractedAt       time.Time
	ExistingSessionID string
}

// BridgeResult reports a successful bridge. MintedSession is true when no
// valid existing session cookie was presented and a fresh id was issued.
type BridgeResult struct {
	SessionID     string
	Platform      session.Platform
	Identity      session.Identity
	MintedSession bool
}

// BridgeService orchestrates the write path: validate, sanitize, probe,
// store, monitor. Every step is a hard gate; a failure aborts with the
// step's error and leaves no partial state behind.
type BridgeService struct {
	store   session.Store
	probes  *probes.Registry
	monitor *monitoring.HealthMonitor
	logger  *logging.ChanneledLogger
}

// NewBridgeService creates a bridge service.
func NewBridgeService(store session.Store, registry *probes.Registry, monitor *monitoring.HealthMonitor, logger *logging.ChanneledLogger) *BridgeService {
	return &BridgeService{
		store:   store,
		probes:  registry,
		monitor: monitor,
		logger:  logger,
	}
}

// Bridge runs the full submission workflow and returns the internal session
// id for the caller to set as the browser cookie.
func (s *BridgeService) Bridge(ctx context.Context, req *BridgeRequest) (*BridgeResult, *session.Error) {
	if !req.Platform.IsValid() {
		return nil, session.NewMalformedInput(req.Platform, "bridge", "unsupported platform")
	}

	if !security.ValidCookieFormat(req.CookieName, req.CookieValue, config.MaxCookieNameLength, config.MaxCookieValueLength) {
		s.logger.Bridge().Warn("Rejected malformed cookie submission", "platform", req.Platform)
		return nil, session.NewMalformedInput(req.Platform, "bridge", "cookie name or value is malformed")
	}

	cookie := session.Cookie{
		Name:  req.CookieName,
		Value: security.SanitizeCookieValue(req.CookieValue),
	}

	prober, ok := s.probes.For(req.Platform)
	if !ok {
		return nil, session.NewMalformedInput(req.Platform, "bridge", "no probe strategy for platform")
	}

	probeCtx, cancel := context.WithTimeout(ctx, config.ProbeTimeout)
	result := prober.Check(probeCtx, cookie)
	cancel()

	if result.Err != nil {
		// Transport failure: surfaced unchanged, never mistaken for a
		// dead cookie.
		return nil, result.Err
	}
	if !result.Live {
		s.logger.Bridge().Info("Probe classified cookie as dead", "platform", req.Platform, "reason", result.Reason)
		return nil, session.NewInvalidCredentials(req.Platform, "bridge", result.Reason)
	}

	identity := security.DeriveIdentity(req.Email, req.Password, config.IdentityHashIterations)

	internalID, minted, serr := s.resolveInternalSession(ctx, req.Platform, req.ExistingSessionID)
	if serr != nil {
		return nil, serr
	}

	capturedAt := req.ExtractedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	rec := &session.PlatformSession{
		Identity:          identity,
		Platform:          req.Platform,
		InternalSessionID: internalID,
		Cookie:            cookie,
		SourceURL:         req.SourceURL,
		CapturedAt:        capturedAt,
	}
	if err := s.store.UpsertPlatformSession(ctx, rec); err != nil {
		return nil, session.NewOperationFailed(req.Platform, "bridge", err)
	}

	// Idempotent: a re-bridge of an already-watched pair changes nothing
	// in the monitor. The bridge probe already proved liveness, so it
	// seeds the health state rather than waiting for the next tick.
	s.monitor.Register(identity, req.Platform)
	s.monitor.RecordResult(identity, req.Platform, result)

	s.logger.Bridge().Info("Session bridged", "platform", req.Platform, "minted", minted)

	return &BridgeResult{
		SessionID:     internalID,
		Platform:      req.Platform,
		Identity:      identity,
		MintedSession: minted,
	}, nil
}

// resolveInternalSession reuses a presented, still-valid session id or
// mints and persists a fresh one.
func (s *BridgeService) resolveInternalSession(ctx context.Context, platform session.Platform, existingID string) (string, bool, *session.Error) {
	if existingID != "" {
		existing, err := s.store.GetInternalSession(ctx, existingID)
		if err != nil {
			return "", false, session.NewOperationFailed(platform, "bridge", err)
		}
		if existing != nil {
			return existing.ID, false, nil
		}
	}

	now := time.Now().UTC()
	sess := &session.InternalSession{
		ID:        security.GenerateULID(),
		CreatedAt: now,
		ExpiresAt: now.Add(config.SessionCookieMaxAge),
	}
	if err := s.store.CreateInternalSession(ctx, sess); err != nil {
		return "", false, session.NewOperationFailed(platform, "bridge", err)
	}
	return sess.ID, true, nil
}
