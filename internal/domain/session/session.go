// Package session defines the core domain model for bridged trading-platform
// sessions: platform tags, credential records, health state, and the
// structured error vocabulary shared by every fallible operation.
package session

import (
	"context"
	"time"
)

// Platform identifies a supported external trading platform.
type Platform string

const (
	PlatformMarketInOut Platform = "marketinout"
	PlatformTradingView Platform = "tradingview"
)

// IsValid reports whether p names a supported platform.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformMarketInOut, PlatformTradingView:
		return true
	}
	return false
}

// Identity is the opaque partition key derived one-way from a user's
// email+password pair. It scopes stored sessions per user and is never
// used as an authentication credential.
type Identity string

// Key returns the monitor/store key for an (identity, platform) pair.
func Key(identity Identity, platform Platform) string {
	return string(identity) + "::" + string(platform)
}

// Cookie is the normalized shape for a captured credential cookie. Raw
// extension payloads (string or structured) are folded into this one type at
// the boundary so downstream code never sees more than one shape.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PlatformSession is the single current credential record for an
// (identity, platform) pair. Bridging a new cookie for the same pair
// replaces this record; it never accumulates.
type PlatformSession struct {
	Identity          Identity  `json:"-"`
	Platform          Platform  `json:"platform"`
	InternalSessionID string    `json:"internalSessionId"`
	Cookie            Cookie    `json:"-"`
	SourceURL         string    `json:"sourceUrl,omitempty"`
	CapturedAt        time.Time `json:"capturedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// InternalSession correlates one browser client with its bridged platform
// sessions. The ID travels to the browser as an http-only cookie; expiry is
// enforced by cookie max-age and by ExpiresAt server-side.
type InternalSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the internal session has passed its retention
// window.
func (s *InternalSession) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Store is the persistence boundary for session records. Implementations
// must be safe for concurrent use. Lookups return (nil, nil) when no record
// exists: absence is an expected outcome, not an error.
type Store interface {
	UpsertPlatformSession(ctx context.Context, rec *PlatformSession) error
	GetPlatformSession(ctx context.Context, identity Identity, platform Platform) (*PlatformSession, error)
	GetPlatformSessionByInternalID(ctx context.Context, internalID string, platform Platform) (*PlatformSession, error)
	DeletePlatformSession(ctx context.Context, identity Identity, platform Platform) error
	ListPlatformSessions(ctx context.Context) ([]*PlatformSession, error)

	CreateInternalSession(ctx context.Context, sess *InternalSession) error
	GetInternalSession(ctx context.Context, id string) (*InternalSession, error)
	DeleteInternalSession(ctx context.Context, id string) error
}
