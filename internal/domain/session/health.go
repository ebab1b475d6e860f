package session

import "time"

// HealthState is the monitor's current belief about a session's liveness,
// derived from recent probe history rather than any cryptographic validity
// the engine cannot observe.
type HealthState string

const (
	HealthUnknown  HealthState = "unknown"
	HealthHealthy  HealthState = "healthy"
	HealthDegraded HealthState = "degraded"
	HealthFailed   HealthState = "failed"
)

// HealthStatus is one monitoring record per (identity, platform) key.
// ConsecutiveFailures only resets on a successful probe; a single transient
// blip therefore degrades but never fails a session on its own.
type HealthStatus struct {
	Identity            Identity    `json:"-"`
	Platform            Platform    `json:"platform"`
	State               HealthState `json:"state"`
	ConsecutiveFailures int         `json:"consecutiveFailures"`
	LastCheckedAt       time.Time   `json:"lastCheckedAt,omitempty"`
	LastError           *Error      `json:"lastError,omitempty"`
}
