package session

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorKind enumerates the failure classes every fallible engine operation
// reports through.
type ErrorKind string

const (
	ErrSessionExpired     ErrorKind = "SESSION_EXPIRED"
	ErrInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	ErrNetwork            ErrorKind = "NETWORK_ERROR"
	ErrRateLimited        ErrorKind = "API_RATE_LIMITED"
	ErrOperationFailed    ErrorKind = "OPERATION_FAILED"
	ErrUnknown            ErrorKind = "UNKNOWN_ERROR"
)

// Severity grades how loudly an error should surface.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// RecoveryKind enumerates the actions a caller can take to recover.
type RecoveryKind string

const (
	RecoveryRetry             RecoveryKind = "RETRY"
	RecoveryWaitAndRetry      RecoveryKind = "WAIT_AND_RETRY"
	RecoveryRefreshSession    RecoveryKind = "REFRESH_SESSION"
	RecoveryReAuthenticate    RecoveryKind = "RE_AUTHENTICATE"
	RecoveryClearCache        RecoveryKind = "CLEAR_CACHE"
	RecoveryCheckNetwork      RecoveryKind = "CHECK_NETWORK"
	RecoveryUpdateCredentials RecoveryKind = "UPDATE_CREDENTIALS"
	RecoveryContactSupport    RecoveryKind = "CONTACT_SUPPORT"
)

// RecoveryAction is one step in the ordered recovery ladder attached to an
// error. Automated marks actions a caller may perform without prompting a
// human.
type RecoveryAction struct {
	Action        RecoveryKind `json:"action"`
	Description   string       `json:"description"`
	Priority      int          `json:"priority"`
	Automated     bool         `json:"automated"`
	EstimatedTime string       `json:"estimatedTime,omitempty"`
}

// Error is the structured error carried unchanged from the point of failure
// to the API or health-status boundary. It implements error so it can flow
// through ordinary Go plumbing without being downgraded.
type Error struct {
	Kind       ErrorKind        `json:"kind"`
	Severity   Severity         `json:"severity"`
	Platform   Platform         `json:"platform,omitempty"`
	Operation  string           `json:"operation"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	HTTPStatus int              `json:"-"`
	StatusCode int              `json:"statusCode,omitempty"`
	URL        string           `json:"url,omitempty"`
	Recovery   []RecoveryAction `json:"recovery"`
}

func (e *Error) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s [%s/%s]: %s", e.Kind, e.Platform, e.Operation, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Operation, e.Message)
}

// NewMalformedInput reports rejected extension input. Maps to HTTP 400.
func NewMalformedInput(platform Platform, operation, message string) *Error {
	return &Error{
		Kind:       ErrOperationFailed,
		Severity:   SeverityWarning,
		Platform:   platform,
		Operation:  operation,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusBadRequest,
		Recovery: []RecoveryAction{
			{Action: RecoveryUpdateCredentials, Description: "Re-capture the cookie via the browser extension", Priority: 1, Automated: false, EstimatedTime: "1m"},
			{Action: RecoveryContactSupport, Description: "Contact support if the extension keeps producing malformed cookies", Priority: 2, Automated: false},
		},
	}
}

// NewInvalidCredentials reports a cookie whose probe classified it dead.
// Maps to HTTP 401; the only real recovery is a fresh capture.
func NewInvalidCredentials(platform Platform, operation, message string) *Error {
	return &Error{
		Kind:       ErrInvalidCredentials,
		Severity:   SeverityError,
		Platform:   platform,
		Operation:  operation,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusUnauthorized,
		Recovery: []RecoveryAction{
			{Action: RecoveryReAuthenticate, Description: "Log in to the platform again and re-capture via the extension", Priority: 1, Automated: false, EstimatedTime: "2m"},
			{Action: RecoveryUpdateCredentials, Description: "Verify the captured cookie belongs to the expected account", Priority: 2, Automated: false},
		},
	}
}

// NewSessionExpired reports a previously-live session that has died under
// monitoring. Maps to HTTP 401.
func NewSessionExpired(platform Platform, operation, message string) *Error {
	return &Error{
		Kind:       ErrSessionExpired,
		Severity:   SeverityError,
		Platform:   platform,
		Operation:  operation,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusUnauthorized,
		Recovery: []RecoveryAction{
			{Action: RecoveryReAuthenticate, Description: "Re-authenticate via the browser extension; the upstream session cannot be revived server-side", Priority: 1, Automated: false, EstimatedTime: "2m"},
			{Action: RecoveryRefreshSession, Description: "Reload the dashboard after re-capturing", Priority: 2, Automated: true, EstimatedTime: "10s"},
		},
	}
}

// NewNetworkError reports a transport-level probe failure (timeout, DNS,
// connection reset). Deliberately not a liveness verdict.
func NewNetworkError(platform Platform, operation, url string, cause error) *Error {
	msg := "network request failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:       ErrNetwork,
		Severity:   SeverityWarning,
		Platform:   platform,
		Operation:  operation,
		Message:    msg,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusBadGateway,
		URL:        url,
		Recovery: []RecoveryAction{
			{Action: RecoveryRetry, Description: "Retry the request", Priority: 1, Automated: true, EstimatedTime: "5s"},
			{Action: RecoveryCheckNetwork, Description: "Check connectivity to the platform", Priority: 2, Automated: false},
		},
	}
}

// NewRateLimited reports an upstream 429. Maps to HTTP 429.
func NewRateLimited(platform Platform, operation, url string) *Error {
	return &Error{
		Kind:       ErrRateLimited,
		Severity:   SeverityWarning,
		Platform:   platform,
		Operation:  operation,
		Message:    "platform rate limit hit",
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusTooManyRequests,
		StatusCode: http.StatusTooManyRequests,
		URL:        url,
		Recovery: []RecoveryAction{
			{Action: RecoveryWaitAndRetry, Description: "Back off before the next probe", Priority: 1, Automated: true, EstimatedTime: "60s"},
		},
	}
}

// NewOperationFailed reports an internal failure (storage, encryption).
// Maps to HTTP 500.
func NewOperationFailed(platform Platform, operation string, cause error) *Error {
	msg := "operation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:       ErrOperationFailed,
		Severity:   SeverityError,
		Platform:   platform,
		Operation:  operation,
		Message:    msg,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusInternalServerError,
		Recovery: []RecoveryAction{
			{Action: RecoveryRetry, Description: "Retry the operation", Priority: 1, Automated: true, EstimatedTime: "5s"},
			{Action: RecoveryContactSupport, Description: "Contact support if the failure persists", Priority: 2, Automated: false},
		},
	}
}

// NewUnknown wraps an unclassifiable failure. Maps to HTTP 500.
func NewUnknown(platform Platform, operation string, cause error) *Error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Kind:       ErrUnknown,
		Severity:   SeverityCritical,
		Platform:   platform,
		Operation:  operation,
		Message:    msg,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: http.StatusInternalServerError,
		Recovery: []RecoveryAction{
			{Action: RecoveryRetry, Description: "Retry the operation", Priority: 1, Automated: true, EstimatedTime: "5s"},
			{Action: RecoveryClearCache, Description: "Clear stored sessions and re-bridge", Priority: 2, Automated: false, EstimatedTime: "2m"},
			{Action: RecoveryContactSupport, Description: "Report the error with its timestamp", Priority: 3, Automated: false},
		},
	}
}
