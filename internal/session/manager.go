package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/w3bpiyush/pustakghar/domain"
)

// Fallback feedback strings, used when a rejection carries no server
// message. Transport and malformed-response failures always surface
// the generic serverDownMessage.
const (
	serverDownMessage     = "Server Down"
	loginFailedMessage    = "Login failed"
	registerFailedMessage = "Registration failed"
	otpFailedMessage      = "OTP verification failed"
)

// Manager orchestrates the side-effecting session intents: each call
// performs the remote request (and credential store access), then
// settles the outcome into the Store. Methods block until settled;
// callers that need fire-and-forget semantics run them in a goroutine.
//
// Credential store mutations are serialized by credMu and fenced by
// the auth channel's sequence number, so a Logout can never be
// interleaved with (or resurrected by) an in-flight Login/Register
// persist.
type Manager struct {
	api    domain.AuthService
	creds  domain.CredentialStore
	store  *Store
	logger *logrus.Logger

	// credMu serializes credential store access; it is always taken
	// outside the store lock.
	credMu sync.Mutex
}

// NewManager creates a manager around the given collaborators.
func NewManager(api domain.AuthService, creds domain.CredentialStore, store *Store, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{api: api, creds: creds, store: store, logger: logger}
}

// Store exposes the session store for screens to read and subscribe.
func (m *Manager) Store() *Store {
	return m.store
}

// Login posts credentials and, on success, persists the returned token
// before the success transition is applied, so no consumer observes an
// authenticated user without a persisted token.
func (m *Manager) Login(ctx context.Context, phone, password string) error {
	seq := m.store.beginAuth(domain.NewSessionEvent(domain.LoginStartedEvent).WithPhone(phone))

	user, message, err := m.api.Login(ctx, phone, password)
	if err != nil {
		fb := feedbackFor(err, loginFailedMessage)
		m.logger.WithError(err).WithField("phone", phone).Warn("login failed")
		m.store.settleAuthFailure(domain.NewSessionEvent(domain.LoginFailedEvent).WithPhone(phone).WithError(fb), seq, fb)
		return err
	}

	if err := m.persistToken(ctx, seq, user.Token); err != nil {
		fb := feedbackFor(err, loginFailedMessage)
		m.store.settleAuthFailure(domain.NewSessionEvent(domain.LoginFailedEvent).WithPhone(phone).WithError(fb), seq, fb)
		return err
	}

	m.store.settleAuthSuccess(domain.NewSessionEvent(domain.LoginSucceededEvent).WithPhone(phone), seq, user, message)
	return nil
}

// Register creates an account. The contract mirrors Login; whether the
// server also issues an OTP is its own concern, the session core only
// records the returned profile and token.
func (m *Manager) Register(ctx context.Context, phone, password, name string) error {
	seq := m.store.beginAuth(domain.NewSessionEvent(domain.RegisterStartedEvent).WithPhone(phone))

	user, message, err := m.api.Register(ctx, phone, password, name)
	if err != nil {
		fb := feedbackFor(err, registerFailedMessage)
		m.logger.WithError(err).WithField("phone", phone).Warn("registration failed")
		m.store.settleAuthFailure(domain.NewSessionEvent(domain.RegisterFailedEvent).WithPhone(phone).WithError(fb), seq, fb)
		return err
	}

	if err := m.persistToken(ctx, seq, user.Token); err != nil {
		fb := feedbackFor(err, registerFailedMessage)
		m.store.settleAuthFailure(domain.NewSessionEvent(domain.RegisterFailedEvent).WithPhone(phone).WithError(fb), seq, fb)
		return err
	}

	m.store.settleAuthSuccess(domain.NewSessionEvent(domain.RegisterSucceededEvent).WithPhone(phone), seq, user, message)
	return nil
}

// VerifyOTP settles only the OTP channel and never touches the
// credential store.
func (m *Manager) VerifyOTP(ctx context.Context, phone, otp string) error {
	seq := m.store.beginOTP(domain.NewSessionEvent(domain.OTPStartedEvent).WithPhone(phone))

	message, err := m.api.VerifyOTP(ctx, phone, otp)
	if err != nil {
		fb := feedbackFor(err, otpFailedMessage)
		m.logger.WithError(err).WithField("phone", phone).Warn("otp verification failed")
		m.store.settleOTPFailure(domain.NewSessionEvent(domain.OTPFailedEvent).WithPhone(phone).WithError(fb), seq, fb)
		return err
	}

	m.store.settleOTPSuccess(domain.NewSessionEvent(domain.OTPVerifiedEvent).WithPhone(phone), seq, message)
	return nil
}

// LoadFromStorage attempts auto-login from the persisted token. It is
// silent: no loading or feedback surfaces on any channel. With no
// token stored it resolves to "no session" without a network call. A
// transport failure leaves the token in place for a later retry; a
// domain rejection means the token is stale, so it is purged.
func (m *Manager) LoadFromStorage(ctx context.Context) error {
	m.credMu.Lock()
	token, err := m.creds.Get(ctx)
	m.credMu.Unlock()
	if err != nil {
		m.logger.WithError(err).Warn("credential store read failed")
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return nil
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		if _, rejected := domain.RejectionMessage(err); rejected {
			m.credMu.Lock()
			if delErr := m.creds.Delete(ctx); delErr != nil {
				m.logger.WithError(delErr).Warn("stale token purge failed")
			}
			m.credMu.Unlock()
		}
		m.logger.WithError(err).Info("auto-login failed, staying logged out")
		return fmt.Errorf("load session: %w", err)
	}

	user.Token = token
	m.store.restore(domain.NewSessionEvent(domain.SessionRestoredEvent).WithPhone(user.PhoneNumber), user)
	return nil
}

// Logout deletes the persisted token unconditionally, then resets the
// session state to its initial defaults. The reset fences out any
// in-flight login/register settlement.
func (m *Manager) Logout(ctx context.Context) error {
	m.credMu.Lock()
	err := m.creds.Delete(ctx)
	m.store.apply(domain.NewSessionEvent(domain.LoggedOutEvent), sessionReset{})
	m.credMu.Unlock()

	if err != nil {
		m.logger.WithError(err).Warn("credential delete failed on logout")
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// persistToken writes the token while the attempt still owns the auth
// channel. A superseded attempt (newer attempt started, or a logout
// reset) skips the write; its success settlement would be fenced out
// by the reducer anyway.
func (m *Manager) persistToken(ctx context.Context, seq uint64, token string) error {
	if token == "" {
		return fmt.Errorf("persist token: %w", domain.ErrServerDown)
	}
	m.credMu.Lock()
	defer m.credMu.Unlock()
	if !m.store.authCurrent(seq) {
		return nil
	}
	if err := m.creds.Set(ctx, token); err != nil {
		m.logger.WithError(err).Error("token persist failed")
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// feedbackFor normalizes an error into the single user-visible string
// for a channel: rejection messages verbatim (with a per-intent
// fallback when empty), everything else the generic server-down text.
func feedbackFor(err error, fallback string) string {
	if msg, ok := domain.RejectionMessage(err); ok {
		if msg == "" {
			return fallback
		}
		return msg
	}
	return serverDownMessage
}
