package session

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestErrorConstructorsMapKindsAndStatuses(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name       string
		err        *Error
		wantKind   ErrorKind
		wantStatus int
	}{
		{"malformed input", NewMalformedInput(PlatformMarketInOut, "bridge", "bad cookie"), ErrOperationFailed, http.StatusBadRequest},
		{"invalid credentials", NewInvalidCredentials(PlatformMarketInOut, "bridge", "dead"), ErrInvalidCredentials, http.StatusUnauthorized},
		{"session expired", NewSessionExpired(PlatformTradingView, "probe", "died"), ErrSessionExpired, http.StatusUnauthorized},
		{"network", NewNetworkError(PlatformMarketInOut, "probe", "https://x", cause), ErrNetwork, http.StatusBadGateway},
		{"rate limited", NewRateLimited(PlatformTradingView, "probe", "https://x"), ErrRateLimited, http.StatusTooManyRequests},
		{"operation failed", NewOperationFailed(PlatformMarketInOut, "bridge", cause), ErrOperationFailed, http.StatusInternalServerError},
		{"unknown", NewUnknown(PlatformMarketInOut, "bridge", cause), ErrUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.wantKind)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("http status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
			if tt.err.Timestamp.IsZero() {
				t.Error("timestamp not set")
			}
			if len(tt.err.Recovery) == 0 {
				t.Error("no recovery actions attached")
			}
		})
	}
}

func TestRecoveryLadderOrdered(t *testing.T) {
	errs := []*Error{
		NewMalformedInput(PlatformMarketInOut, "bridge", "m"),
		NewInvalidCredentials(PlatformMarketInOut, "bridge", "m"),
		NewSessionExpired(PlatformMarketInOut, "probe", "m"),
		NewNetworkError(PlatformMarketInOut, "probe", "u", nil),
		NewOperationFailed(PlatformMarketInOut, "bridge", nil),
		NewUnknown(PlatformMarketInOut, "bridge", nil),
	}
	for _, e := range errs {
		for i := 1; i < len(e.Recovery); i++ {
			if e.Recovery[i].Priority <= e.Recovery[i-1].Priority {
				t.Errorf("%s: recovery priorities not strictly ascending", e.Kind)
			}
		}
		if e.Recovery[0].Priority != 1 {
			t.Errorf("%s: first recovery action has priority %d", e.Kind, e.Recovery[0].Priority)
		}
	}
}

func TestErrorStringCarriesContext(t *testing.T) {
	e := NewInvalidCredentials(PlatformMarketInOut, "bridge", "login form served")
	msg := e.Error()
	for _, want := range []string{"INVALID_CREDENTIALS", "marketinout", "bridge", "login form served"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestErrorImplementsError(t *testing.T) {
	var err error = NewUnknown("", "op", nil)
	if err.Error() == "" {
		t.Error("empty error string")
	}
}
