package errors

import (
	"fmt"
	"testing"
)

func TestNotFoundError_Is(t *testing.T) {
	err := NewNotFoundError("client", "client-9")

	if !Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if !Is(err, &NotFoundError{}) {
		t.Error("NotFoundError should match any *NotFoundError")
	}
	if got, want := err.Error(), "client 'client-9' not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUpdateError_UnwrapsNotFound(t *testing.T) {
	err := NewUpdateError("client-1", NewNotFoundError("client", "client-1"))

	if !IsNotFound(err) {
		t.Error("UpdateError wrapping NotFoundError should be IsNotFound")
	}
	var upd *UpdateError
	if !As(err, &upd) || upd.ID != "client-1" {
		t.Errorf("As(*UpdateError) failed: %+v", upd)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"channel", NewChannelError("dial", "ws://x", New("refused")), true},
		{"load", NewLoadError("all", New("timeout")), true},
		{"wrapped load", fmt.Errorf("ctx: %w", NewLoadError("all", New("boom"))), true},
		{"not found", NewUpdateError("a", NewNotFoundError("client", "a")), false},
		{"validation", NewValidationError("bad").WithField("status"), false},
		{"plain", New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	tests := []struct {
		err  *ValidationError
		want string
	}{
		{NewValidationError("empty"), "invalid input: empty"},
		{NewValidationError("required").WithField("id"), "invalid id: required"},
		{NewValidationError("must be pending or confirmed").WithField("status").WithValue("done"),
			"invalid status done: must be pending or confirmed"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if !Is(tt.err, ErrInvalidInput) {
			t.Errorf("%v should match ErrInvalidInput", tt.err)
		}
	}
}
