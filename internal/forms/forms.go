// Package forms holds the ephemeral per-screen input state: raw field
// values, password visibility toggles, validation, and the coupling to
// the session store's feedback lifecycle (editing a field after a
// settled attempt dismisses the stale message).
package forms

import (
	"context"
	"errors"
	"regexp"

	"github.com/w3bpiyush/pustakghar/internal/session"
)

// Validation errors, surfaced to the caller without any network call.
var (
	ErrPhoneRequired    = errors.New("phone number is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrFullNameRequired = errors.New("full name is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrOTPInvalidFormat = errors.New("otp must be 6 digits")
)

const minPasswordLen = 6

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// LoginForm is the login screen's input state.
type LoginForm struct {
	store *session.Store

	PhoneNumber  string
	Password     string
	ShowPassword bool
}

// NewLoginForm creates a login form bound to the session store.
func NewLoginForm(store *session.Store) *LoginForm {
	return &LoginForm{store: store}
}

// SetPhoneNumber updates the field and dismisses stale feedback.
func (f *LoginForm) SetPhoneNumber(v string) {
	f.PhoneNumber = v
	dismissStale(f.store)
}

// SetPassword updates the field and dismisses stale feedback.
func (f *LoginForm) SetPassword(v string) {
	f.Password = v
	dismissStale(f.store)
}

// ToggleShowPassword flips password visibility.
func (f *LoginForm) ToggleShowPassword() {
	f.ShowPassword = !f.ShowPassword
}

// ClearFields resets all fields to empty strings.
func (f *LoginForm) ClearFields() {
	f.PhoneNumber = ""
	f.Password = ""
}

// Validate checks the fields without touching the network.
func (f *LoginForm) Validate() error {
	if f.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	if len(f.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Submit validates and dispatches the login intent. A validation
// failure short-circuits: fields and stale feedback are cleared and no
// request is sent.
func (f *LoginForm) Submit(ctx context.Context, mgr *session.Manager) error {
	phone, password := f.PhoneNumber, f.Password
	if err := f.Validate(); err != nil {
		f.ClearFields()
		f.store.ClearFeedback()
		return err
	}
	f.ClearFields()
	return mgr.Login(ctx, phone, password)
}

// RegisterForm is the registration screen's input state.
type RegisterForm struct {
	store *session.Store

	FullName            string
	PhoneNumber         string
	Password            string
	ConfirmPassword     string
	ShowPassword        bool
	ShowConfirmPassword bool
}

// NewRegisterForm creates a registration form bound to the session store.
func NewRegisterForm(store *session.Store) *RegisterForm {
	return &RegisterForm{store: store}
}

// SetFullName updates the field and dismisses stale feedback.
func (f *RegisterForm) SetFullName(v string) {
	f.FullName = v
	dismissStale(f.store)
}

// SetPhoneNumber updates the field and dismisses stale feedback.
func (f *RegisterForm) SetPhoneNumber(v string) {
	f.PhoneNumber = v
	dismissStale(f.store)
}

// SetPassword updates the field and dismisses stale feedback.
func (f *RegisterForm) SetPassword(v string) {
	f.Password = v
	dismissStale(f.store)
}

// SetConfirmPassword updates the field and dismisses stale feedback.
func (f *RegisterForm) SetConfirmPassword(v string) {
	f.ConfirmPassword = v
	dismissStale(f.store)
}

// ToggleShowPassword flips password visibility.
func (f *RegisterForm) ToggleShowPassword() {
	f.ShowPassword = !f.ShowPassword
}

// ToggleShowConfirmPassword flips confirm-password visibility.
func (f *RegisterForm) ToggleShowConfirmPassword() {
	f.ShowConfirmPassword = !f.ShowConfirmPassword
}

// ClearFields resets all fields to empty strings.
func (f *RegisterForm) ClearFields() {
	f.FullName = ""
	f.PhoneNumber = ""
	f.Password = ""
	f.ConfirmPassword = ""
}

// Validate checks the fields without touching the network.
func (f *RegisterForm) Validate() error {
	if f.FullName == "" {
		return ErrFullNameRequired
	}
	if f.PhoneNumber == "" {
		return ErrPhoneRequired
	}
	if len(f.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// Submit validates and dispatches the register intent.
func (f *RegisterForm) Submit(ctx context.Context, mgr *session.Manager) error {
	name, phone, password := f.FullName, f.PhoneNumber, f.Password
	if err := f.Validate(); err != nil {
		f.ClearFields()
		f.store.ClearFeedback()
		return err
	}
	f.ClearFields()
	return mgr.Register(ctx, phone, password, name)
}

// OTPForm is the OTP verification screen's input state.
type OTPForm struct {
	store *session.Store

	Phone string
	OTP   string
}

// NewOTPForm creates an OTP form bound to the session store for the
// given phone number.
func NewOTPForm(store *session.Store, phone string) *OTPForm {
	return &OTPForm{store: store, Phone: phone}
}

// SetOTP updates the field and dismisses stale feedback.
func (f *OTPForm) SetOTP(v string) {
	f.OTP = v
	dismissStale(f.store)
}

// ClearOTP resets the code field.
func (f *OTPForm) ClearOTP() {
	f.OTP = ""
}

// Validate checks the code without touching the network.
func (f *OTPForm) Validate() error {
	if !otpPattern.MatchString(f.OTP) {
		return ErrOTPInvalidFormat
	}
	return nil
}

// Submit validates and dispatches the OTP verification intent.
func (f *OTPForm) Submit(ctx context.Context, mgr *session.Manager) error {
	otp := f.OTP
	if err := f.Validate(); err != nil {
		f.ClearOTP()
		f.store.ClearFeedback()
		return err
	}
	f.ClearOTP()
	return mgr.VerifyOTP(ctx, f.Phone, otp)
}

func dismissStale(store *session.Store) {
	if store.Snapshot().HasFeedback() {
		store.ClearFeedback()
	}
}
