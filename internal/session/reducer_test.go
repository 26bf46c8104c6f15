package session

import (
	"testing"

	"github.com/w3bpiyush/pustakghar/domain"
)

func TestReduce_AuthChannelLifecycle(t *testing.T) {
	user := &domain.UserData{Name: "A", PhoneNumber: "9800000000", Token: "tok123"}

	tests := []struct {
		name     string
		outcomes []outcome
		validate func(t *testing.T, s State)
	}{
		{
			name:     "start sets pending and clears feedback",
			outcomes: []outcome{authFailed{seq: 0, message: "old"}, authStarted{seq: 1}},
			validate: func(t *testing.T, s State) {
				if s.Auth.Phase != PhasePending {
					t.Fatalf("expected pending, got %v", s.Auth.Phase)
				}
				if s.Auth.Feedback != "" {
					t.Errorf("expected feedback cleared, got %q", s.Auth.Feedback)
				}
			},
		},
		{
			name:     "success stores user and message",
			outcomes: []outcome{authStarted{seq: 1}, authSucceeded{seq: 1, user: user, message: "Welcome"}},
			validate: func(t *testing.T, s State) {
				snap := s.snapshot()
				if snap.Loading {
					t.Error("loading must settle on success")
				}
				if snap.User == nil || snap.User.Token != "tok123" {
					t.Fatalf("expected user with token, got %+v", snap.User)
				}
				if snap.Message != "Welcome" || snap.Error != "" {
					t.Errorf("expected message only, got message=%q error=%q", snap.Message, snap.Error)
				}
			},
		},
		{
			name:     "failure clears user and stores error",
			outcomes: []outcome{authSucceeded{seq: 0, user: user, message: "Welcome"}, authStarted{seq: 1}, authFailed{seq: 1, message: "Invalid credentials"}},
			validate: func(t *testing.T, s State) {
				snap := s.snapshot()
				if snap.User != nil {
					t.Error("expected user cleared on failure")
				}
				if snap.Error != "Invalid credentials" || snap.Message != "" {
					t.Errorf("expected error only, got message=%q error=%q", snap.Message, snap.Error)
				}
				if snap.Loading {
					t.Error("loading must settle on failure")
				}
			},
		},
		{
			name:     "stale settlement is fenced out",
			outcomes: []outcome{authStarted{seq: 1}, authStarted{seq: 2}, authFailed{seq: 1, message: "slow failure"}},
			validate: func(t *testing.T, s State) {
				if s.Auth.Phase != PhasePending {
					t.Fatalf("expected the newer attempt to stay pending, got %v", s.Auth.Phase)
				}
			},
		},
		{
			name:     "stale success does not resurrect a user after reset",
			outcomes: []outcome{authStarted{seq: 1}, sessionReset{}, authSucceeded{seq: 1, user: user, message: "Welcome"}},
			validate: func(t *testing.T, s State) {
				if s.User != nil {
					t.Error("expected fenced success to be dropped after reset")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{}
			for _, o := range tt.outcomes {
				s = reduce(s, o)
			}
			tt.validate(t, s)
		})
	}
}

func TestReduce_OTPChannelLifecycle(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []outcome
		validate func(t *testing.T, s State)
	}{
		{
			name:     "start resets verified and clears feedback",
			outcomes: []outcome{otpStarted{seq: 1}, otpVerified{seq: 1, message: "Verified"}, otpStarted{seq: 2}},
			validate: func(t *testing.T, s State) {
				if s.OTPVerified {
					t.Error("expected otpVerified reset when a new attempt begins")
				}
				snap := s.snapshot()
				if !snap.OTPLoading || snap.OTPMessage != "" || snap.OTPError != "" {
					t.Errorf("expected pending with no feedback, got %+v", snap)
				}
			},
		},
		{
			name:     "verification success",
			outcomes: []outcome{otpStarted{seq: 1}, otpVerified{seq: 1, message: "Verified"}},
			validate: func(t *testing.T, s State) {
				snap := s.snapshot()
				if !snap.OTPVerified || snap.OTPLoading {
					t.Errorf("expected verified and settled, got %+v", snap)
				}
				if snap.OTPMessage != "Verified" || snap.OTPError != "" {
					t.Errorf("expected message only, got message=%q error=%q", snap.OTPMessage, snap.OTPError)
				}
			},
		},
		{
			name:     "verification failure",
			outcomes: []outcome{otpStarted{seq: 1}, otpFailed{seq: 1, message: "Invalid OTP"}},
			validate: func(t *testing.T, s State) {
				snap := s.snapshot()
				if snap.OTPVerified || snap.OTPLoading {
					t.Errorf("expected unverified and settled, got %+v", snap)
				}
				if snap.OTPError != "Invalid OTP" || snap.OTPMessage != "" {
					t.Errorf("expected error only, got message=%q error=%q", snap.OTPMessage, snap.OTPError)
				}
			},
		},
		{
			name:     "otp channel is independent of the auth channel",
			outcomes: []outcome{authStarted{seq: 1}, otpStarted{seq: 2}, otpVerified{seq: 2, message: "Verified"}},
			validate: func(t *testing.T, s State) {
				snap := s.snapshot()
				if !snap.Loading {
					t.Error("auth channel must stay pending")
				}
				if !snap.OTPVerified {
					t.Error("otp channel must settle independently")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{}
			for _, o := range tt.outcomes {
				s = reduce(s, o)
			}
			tt.validate(t, s)
		})
	}
}

func TestReduce_FeedbackMutualExclusion(t *testing.T) {
	// Exhaust every outcome sequence of length three over a fixed
	// alphabet and verify the invariant holds throughout.
	user := &domain.UserData{Name: "A", PhoneNumber: "98", Token: "t"}
	alphabet := []outcome{
		authStarted{seq: 1}, authSucceeded{seq: 1, user: user, message: "ok"}, authFailed{seq: 1, message: "no"},
		otpStarted{seq: 2}, otpVerified{seq: 2, message: "ok"}, otpFailed{seq: 2, message: "no"},
		sessionRestored{user: user}, feedbackCleared{}, sessionReset{},
	}

	var walk func(s State, depth int)
	walk = func(s State, depth int) {
		snap := s.snapshot()
		if snap.Error != "" && snap.Message != "" {
			t.Fatalf("error and message both set: %+v", snap)
		}
		if snap.OTPError != "" && snap.OTPMessage != "" {
			t.Fatalf("otpError and otpMessage both set: %+v", snap)
		}
		if snap.Loading && (snap.Error != "" || snap.Message != "") {
			t.Fatalf("loading with visible feedback: %+v", snap)
		}
		if depth == 0 {
			return
		}
		for _, o := range alphabet {
			walk(reduce(s, o), depth-1)
		}
	}
	walk(State{}, 3)
}

func TestReduce_FeedbackClearedAtomically(t *testing.T) {
	s := State{}
	s = reduce(s, authStarted{seq: 1})
	s = reduce(s, authSucceeded{seq: 1, user: &domain.UserData{Token: "t"}, message: "Welcome"})
	s = reduce(s, otpStarted{seq: 2})
	s = reduce(s, otpFailed{seq: 2, message: "Invalid OTP"})

	s = reduce(s, feedbackCleared{})
	snap := s.snapshot()
	if snap.HasFeedback() {
		t.Fatalf("expected all feedback cleared, got %+v", snap)
	}
	if snap.User == nil {
		t.Error("clearing feedback must not log the user out")
	}

	// Idempotence: clearing twice equals clearing once.
	again := reduce(s, feedbackCleared{})
	if again != s {
		t.Error("expected clearFeedback to be idempotent")
	}
}
