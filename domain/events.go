package domain

import "time"

// SessionEventType identifies a session state transition.
type SessionEventType string

const (
	// Login/register channel events
	LoginStartedEvent      SessionEventType = "LOGIN_STARTED"
	LoginSucceededEvent    SessionEventType = "LOGIN_SUCCEEDED"
	LoginFailedEvent       SessionEventType = "LOGIN_FAILED"
	RegisterStartedEvent   SessionEventType = "REGISTER_STARTED"
	RegisterSucceededEvent SessionEventType = "REGISTER_SUCCEEDED"
	RegisterFailedEvent    SessionEventType = "REGISTER_FAILED"

	// OTP channel events
	OTPStartedEvent  SessionEventType = "OTP_STARTED"
	OTPVerifiedEvent SessionEventType = "OTP_VERIFIED"
	OTPFailedEvent   SessionEventType = "OTP_FAILED"

	// Lifecycle events
	SessionRestoredEvent SessionEventType = "SESSION_RESTORED"
	LoggedOutEvent       SessionEventType = "LOGGED_OUT"
	FeedbackClearedEvent SessionEventType = "FEEDBACK_CLEARED"
	SessionResetEvent    SessionEventType = "SESSION_RESET"
)

// SessionEvent describes a transition applied to the session state,
// delivered to store subscribers alongside the resulting snapshot.
type SessionEvent struct {
	Type      SessionEventType
	Phone     string
	ErrorMsg  string
	Success   bool
	Timestamp time.Time
}

// NewSessionEvent creates an event with common fields populated.
func NewSessionEvent(eventType SessionEventType) SessionEvent {
	return SessionEvent{
		Type:      eventType,
		Success:   true,
		Timestamp: time.Now().UTC(),
	}
}

// WithPhone sets the phone field.
func (e SessionEvent) WithPhone(phone string) SessionEvent {
	e.Phone = phone
	return e
}

// WithError marks the event as failed and records the message.
func (e SessionEvent) WithError(msg string) SessionEvent {
	e.Success = false
	e.ErrorMsg = msg
	return e
}

// Fields returns the event as structured log fields.
func (e SessionEvent) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"event":   string(e.Type),
		"success": e.Success,
	}
	if e.Phone != "" {
		fields["phone"] = e.Phone
	}
	if e.ErrorMsg != "" {
		fields["error"] = e.ErrorMsg
	}
	return fields
}
