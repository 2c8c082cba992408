package apperrors

import (
	"fmt"
	"testing"
)

func TestIsUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "missing field", err: ErrMissingField, want: true},
		{name: "wrapped taken", err: fmt.Errorf("append: %w", ErrUsernameTaken), want: true},
		{name: "invalid credentials", err: ErrInvalidCredentials, want: true},
		{name: "store unavailable", err: fmt.Errorf("%w: disk full", ErrStoreUnavailable), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserError(tt.err); got != tt.want {
				t.Errorf("IsUserError() = %v, want %v", got, tt.want)
			}
		})
	}
}
