package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"AuthError", AuthError, 5},
		{"NetworkError", NetworkError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "coded auth error",
			err:      perrors.NewNotLoggedInError(),
			expected: AuthError,
		},
		{
			name:     "coded session error wrapped",
			err:      fmt.Errorf("listing places: %w", perrors.NewSessionExpiredError(errors.New("401"))),
			expected: AuthError,
		},
		{
			name:     "coded network error",
			err:      perrors.NewBackendUnreachableError("http://localhost:3000/api", errors.New("refused")),
			expected: NetworkError,
		},
		{
			name:     "coded validation error",
			err:      perrors.NewRequiredFieldError("nombre"),
			expected: UsageError,
		},
		{
			name:     "coded http error is general",
			err:      perrors.New(perrors.ErrCodeHTTPServer, "boom"),
			expected: GeneralError,
		},
		{
			name:     "authentication error",
			err:      errors.New("authentication failed: invalid token"),
			expected: AuthError,
		},
		{
			name:     "unauthorized error",
			err:      errors.New("unauthorized access"),
			expected: AuthError,
		},
		{
			name:     "connection error",
			err:      errors.New("connection refused"),
			expected: NetworkError,
		},
		{
			name:     "timeout error",
			err:      errors.New("request timeout"),
			expected: NetworkError,
		},
		{
			name:     "usage error - invalid flag",
			err:      errors.New("invalid flag: --foo"),
			expected: UsageError,
		},
		{
			name:     "usage error - arg count",
			err:      errors.New("accepts 1 arg(s), received 0"),
			expected: UsageError,
		},
		{
			name:     "cancelled context",
			err:      fmt.Errorf("fetching places: %w", context.Canceled),
			expected: Interrupted,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	for _, code := range []int{Success, GeneralError, UsageError, AuthError, NetworkError, Interrupted} {
		if desc := GetExitCodeDescription(code); desc == "Unknown error" {
			t.Errorf("GetExitCodeDescription(%d) returned unknown", code)
		}
	}
	if desc := GetExitCodeDescription(99); desc != "Unknown error" {
		t.Errorf("GetExitCodeDescription(99) = %q, want Unknown error", desc)
	}
}
