package services

import (
	"context"
	"fmt"

	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/monitoring"
	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/observability/logging"
)

// ResolverService is the read path over stored sessions. Resolve returns
// the stored record regardless of health state: degradation is advisory,
// because probes are heuristic and may themselves be wrong. Only a missing
// record yields none, and none is an expected outcome ("needs re-capture"),
// never an error.
type ResolverService struct {
	store   session.Store
	monitor *monitoring.HealthMonitor
	logger  *logging.ChanneledLogger
}

// NewResolverService creates a resolver service.
func NewResolverService(store session.Store, monitor *monitoring.HealthMonitor, logger *logging.ChanneledLogger) *ResolverService {
	return &ResolverService{
		store:   store,
		monitor: monitor,
		logger:  logger,
	}
}

// Resolve returns the current record for (identity, platform), or
// (nil, nil) when none exists.
func (s *ResolverService) Resolve(ctx context.Context, platform session.Platform, identity session.Identity) (*session.PlatformSession, error) {
	rec, err := s.store.GetPlatformSession(ctx, identity, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return rec, nil
}

// ResolveByInternalID looks up a record through the browser's correlation
// cookie instead of the identity hash.
func (s *ResolverService) ResolveByInternalID(ctx context.Context, internalID string, platform session.Platform) (*session.PlatformSession, error) {
	rec, err := s.store.GetPlatformSessionByInternalID(ctx, internalID, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return rec, nil
}

// Status returns the monitor's current belief for (identity, platform).
// The second return is false when the pair has never been registered.
func (s *ResolverService) Status(platform session.Platform, identity session.Identity) (session.HealthStatus, bool) {
	return s.monitor.Status(identity, platform)
}

// Logout deletes every platform record correlated with the internal session
// id, unregisters them from the monitor, and drops the internal session.
func (s *ResolverService) Logout(ctx context.Context, internalID string) error {
	platforms := []session.Platform{session.PlatformMarketInOut, session.PlatformTradingView}

	for _, platform := range platforms {
		rec, err := s.store.GetPlatformSessionByInternalID(ctx, internalID, platform)
		if err != nil {
			return fmt.Errorf("failed to look up session for logout: %w", err)
		}
		if rec == nil {
			continue
		}
		if err := s.store.DeletePlatformSession(ctx, rec.Identity, platform); err != nil {
			return fmt.Errorf("failed to delete platform session: %w", err)
		}
		s.monitor.Unregister(rec.Identity, platform)
		s.logger.Bridge().Info("Platform session removed on logout", "platform", platform)
	}

	if err := s.store.DeleteInternalSession(ctx, internalID); err != nil {
		return fmt.Errorf("failed to delete internal session: %w", err)
	}
	return nil
}
