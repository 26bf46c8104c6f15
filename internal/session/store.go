package session

import (
	"sync"

	"github.com/w3bpiyush/pustakghar/domain"
)

// Listener receives every applied transition together with the
// resulting snapshot. Listeners are invoked synchronously, in
// subscription order, outside of any I/O.
type Listener func(domain.SessionEvent, Snapshot)

// Store holds the session state and applies outcomes through the
// reducer under a single mutex. It performs no I/O itself; the
// Manager resolves remote calls and feeds settlements in.
type Store struct {
	mu        sync.Mutex
	state     State
	seq       uint64
	listeners map[int]Listener
	nextSub   int
}

// NewStore creates a store with all fields at their empty defaults.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Snapshot returns the current read-only projection of the state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Subscribe registers a listener and returns its unsubscribe func.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// ClearFeedback dismisses all four feedback fields atomically. It is
// idempotent and never clears a subset.
func (s *Store) ClearFeedback() {
	s.apply(domain.NewSessionEvent(domain.FeedbackClearedEvent), feedbackCleared{})
}

// Reset returns the state to its initial defaults. In-flight attempts
// are fenced out: their settlements no longer match the current seq.
func (s *Store) Reset() {
	s.apply(domain.NewSessionEvent(domain.SessionResetEvent), sessionReset{})
}

func (s *Store) apply(ev domain.SessionEvent, o outcome) {
	s.mu.Lock()
	before := s.state
	s.state = reduce(s.state, o)
	changed := s.state != before
	snap := s.state.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, l := range listeners {
		l(ev, snap)
	}
}

// beginAuth opens a new attempt on the login/register channel and
// returns the sequence number that owns it.
func (s *Store) beginAuth(ev domain.SessionEvent) uint64 {
	seq := s.nextSeq()
	s.apply(ev, authStarted{seq: seq})
	return seq
}

// beginOTP opens a new attempt on the OTP channel.
func (s *Store) beginOTP(ev domain.SessionEvent) uint64 {
	seq := s.nextSeq()
	s.apply(ev, otpStarted{seq: seq})
	return seq
}

func (s *Store) settleAuthSuccess(ev domain.SessionEvent, seq uint64, user *domain.UserData, message string) {
	s.apply(ev, authSucceeded{seq: seq, user: user, message: message})
}

func (s *Store) settleAuthFailure(ev domain.SessionEvent, seq uint64, message string) {
	s.apply(ev, authFailed{seq: seq, message: message})
}

func (s *Store) settleOTPSuccess(ev domain.SessionEvent, seq uint64, message string) {
	s.apply(ev, otpVerified{seq: seq, message: message})
}

func (s *Store) settleOTPFailure(ev domain.SessionEvent, seq uint64, message string) {
	s.apply(ev, otpFailed{seq: seq, message: message})
}

func (s *Store) restore(ev domain.SessionEvent, user *domain.UserData) {
	s.apply(ev, sessionRestored{user: user})
}

// authCurrent reports whether seq is still the owner of the auth
// channel, i.e. no newer attempt or reset has superseded it.
func (s *Store) authCurrent(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Auth.Seq == seq
}

func (s *Store) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}
