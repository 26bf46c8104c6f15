// Package session implements the client-side authentication session
// core: a reducer-driven state store plus the async intent handlers
// that drive login, registration, OTP verification, auto-login from
// secure storage and logout against the remote auth API.
package session

import "github.com/w3bpiyush/pustakghar/domain"

// Phase is the lifecycle position of a request channel. Modelling the
// channel as a tagged phase plus one feedback string makes illegal
// combinations (loading with an error set) unrepresentable.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

// Channel is an independent slice of session state with its own
// pending/success/failure lifecycle. Feedback holds the error message
// when Phase is PhaseFailed and the success message when Phase is
// PhaseSucceeded; it is empty otherwise. Seq identifies the attempt
// that owns the current phase, used to fence out settlements of
// superseded attempts.
type Channel struct {
	Phase    Phase
	Feedback string
	Seq      uint64
}

// State is the authoritative in-memory session state. It is mutated
// only by the reducer; the auth channel is shared by login and
// register, the OTP channel is independent of it.
type State struct {
	User        *domain.UserData
	Auth        Channel
	OTP         Channel
	OTPVerified bool
}

// Snapshot is the read-only projection of State consumed by screens.
type Snapshot struct {
	User        *domain.UserData
	Loading     bool
	Error       string
	Message     string
	OTPVerified bool
	OTPLoading  bool
	OTPError    string
	OTPMessage  string
}

// HasFeedback reports whether any feedback field is currently visible.
func (s Snapshot) HasFeedback() bool {
	return s.Error != "" || s.Message != "" || s.OTPError != "" || s.OTPMessage != ""
}

func (s State) snapshot() Snapshot {
	snap := Snapshot{
		User:        s.User,
		Loading:     s.Auth.Phase == PhasePending,
		OTPLoading:  s.OTP.Phase == PhasePending,
		OTPVerified: s.OTPVerified,
	}
	switch s.Auth.Phase {
	case PhaseSucceeded:
		snap.Message = s.Auth.Feedback
	case PhaseFailed:
		snap.Error = s.Auth.Feedback
	}
	switch s.OTP.Phase {
	case PhaseSucceeded:
		snap.OTPMessage = s.OTP.Feedback
	case PhaseFailed:
		snap.OTPError = s.OTP.Feedback
	}
	return snap
}
