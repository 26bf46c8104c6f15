package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestRejectionError_Error(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "carries server message verbatim",
			message:  "Invalid credentials",
			expected: "Invalid credentials",
		},
		{
			name:     "empty message has a fallback",
			message:  "",
			expected: "request rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &RejectionError{Message: tt.message}
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestRejectionMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
		expectedOK  bool
	}{
		{
			name:        "direct rejection",
			err:         &RejectionError{Message: "User already exists"},
			expectedMsg: "User already exists",
			expectedOK:  true,
		},
		{
			name:        "wrapped rejection",
			err:         fmt.Errorf("login: %w", &RejectionError{Message: "Invalid credentials"}),
			expectedMsg: "Invalid credentials",
			expectedOK:  true,
		},
		{
			name:       "transport failure is not a rejection",
			err:        ErrServerDown,
			expectedOK: false,
		},
		{
			name:       "arbitrary error is not a rejection",
			err:        errors.New("boom"),
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := RejectionMessage(tt.err)
			if ok != tt.expectedOK {
				t.Fatalf("expected ok=%v, got %v", tt.expectedOK, ok)
			}
			if ok && msg != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, msg)
			}
		})
	}
}

func TestSessionEvent_WithError(t *testing.T) {
	ev := NewSessionEvent(LoginFailedEvent).WithPhone("9800000000").WithError("Server Down")

	if ev.Success {
		t.Error("expected event with error to be unsuccessful")
	}
	if ev.ErrorMsg != "Server Down" {
		t.Errorf("expected error message to be recorded, got %q", ev.ErrorMsg)
	}

	fields := ev.Fields()
	if fields["event"] != "LOGIN_FAILED" {
		t.Errorf("unexpected event field: %v", fields["event"])
	}
	if fields["phone"] != "9800000000" {
		t.Errorf("unexpected phone field: %v", fields["phone"])
	}
}
