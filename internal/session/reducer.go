package session

import "github.com/w3bpiyush/pustakghar/domain"

// outcome is a resolved result applied to the state by the reducer.
// Settlement outcomes carry the sequence number of the attempt they
// belong to; the reducer drops settlements of superseded attempts.
type outcome interface {
	isOutcome()
}

type authStarted struct{ seq uint64 }

type authSucceeded struct {
	seq     uint64
	user    *domain.UserData
	message string
}

type authFailed struct {
	seq     uint64
	message string
}

type otpStarted struct{ seq uint64 }

type otpVerified struct {
	seq     uint64
	message string
}

type otpFailed struct {
	seq     uint64
	message string
}

type sessionRestored struct{ user *domain.UserData }

type feedbackCleared struct{}

type sessionReset struct{}

func (authStarted) isOutcome()     {}
func (authSucceeded) isOutcome()   {}
func (authFailed) isOutcome()      {}
func (otpStarted) isOutcome()      {}
func (otpVerified) isOutcome()     {}
func (otpFailed) isOutcome()       {}
func (sessionRestored) isOutcome() {}
func (feedbackCleared) isOutcome() {}
func (sessionReset) isOutcome()    {}

// reduce applies an outcome to the state and returns the next state.
// It is pure: no I/O, no clock, no mutation of its input.
func reduce(s State, o outcome) State {
	switch o := o.(type) {
	case authStarted:
		s.Auth = Channel{Phase: PhasePending, Seq: o.seq}

	case authSucceeded:
		if o.seq != s.Auth.Seq {
			return s
		}
		s.Auth = Channel{Phase: PhaseSucceeded, Feedback: o.message, Seq: o.seq}
		s.User = o.user

	case authFailed:
		if o.seq != s.Auth.Seq {
			return s
		}
		s.Auth = Channel{Phase: PhaseFailed, Feedback: o.message, Seq: o.seq}
		s.User = nil

	case otpStarted:
		s.OTP = Channel{Phase: PhasePending, Seq: o.seq}
		s.OTPVerified = false

	case otpVerified:
		if o.seq != s.OTP.Seq {
			return s
		}
		s.OTP = Channel{Phase: PhaseSucceeded, Feedback: o.message, Seq: o.seq}
		s.OTPVerified = true

	case otpFailed:
		if o.seq != s.OTP.Seq {
			return s
		}
		s.OTP = Channel{Phase: PhaseFailed, Feedback: o.message, Seq: o.seq}
		s.OTPVerified = false

	case sessionRestored:
		// Silent: the auth channel is untouched, no loading or
		// feedback surfaces from auto-login.
		s.User = o.user

	case feedbackCleared:
		s.Auth = clearFeedback(s.Auth)
		s.OTP = clearFeedback(s.OTP)

	case sessionReset:
		s = State{}
	}
	return s
}

// clearFeedback dismisses a settled channel back to idle. A pending
// channel is left alone so an in-flight attempt keeps its owner seq.
func clearFeedback(c Channel) Channel {
	if c.Phase == PhaseSucceeded || c.Phase == PhaseFailed {
		return Channel{Phase: PhaseIdle, Seq: c.Seq}
	}
	return c
}
