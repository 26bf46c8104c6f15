// Package httpapi is a stub of the remote PustakGhar auth service for
// local development and integration tests: an in-memory user registry
// behind the same JSON envelope the production API speaks.
package httpapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Registry errors
var (
	errUserExists         = errors.New("user already exists")
	errInvalidCredentials = errors.New("invalid credentials")
	errPhoneNotVerified   = errors.New("phone number not verified")
	errUserNotFound       = errors.New("user not found")
	errOTPNotFound        = errors.New("otp not found")
	errOTPExpired         = errors.New("otp has expired")
	errOTPInvalid         = errors.New("invalid otp code")
	errOTPMaxAttempts     = errors.New("maximum otp attempts exceeded")
)

// Account is a registered user.
type Account struct {
	ID           string
	Name         string
	Phone        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

type otpEntry struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// RegistryConfig tunes OTP issuance.
type RegistryConfig struct {
	OTPTTL         time.Duration
	OTPMaxAttempts int
}

// Registry is the in-memory user and OTP table.
type Registry struct {
	mu     sync.Mutex
	users  map[string]*Account
	otps   map[string]*otpEntry
	config RegistryConfig
	logger *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(config RegistryConfig, logger *logrus.Logger) *Registry {
	if config.OTPTTL == 0 {
		config.OTPTTL = 5 * time.Minute
	}
	if config.OTPMaxAttempts == 0 {
		config.OTPMaxAttempts = 3
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		users:  make(map[string]*Account),
		otps:   make(map[string]*otpEntry),
		config: config,
		logger: logger,
	}
}

// Register creates an account and issues its verification OTP. The
// code is logged instead of sent; there is no SMS gateway in the stub.
func (r *Registry) Register(phone, password, name string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[phone]; ok {
		return nil, errUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := &Account{
		ID:           uuid.NewString(),
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	r.users[phone] = acct

	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}
	r.otps[phone] = &otpEntry{Code: code, ExpiresAt: time.Now().Add(r.config.OTPTTL)}

	r.logger.WithFields(logrus.Fields{
		"phone": phone,
		"otp":   code,
	}).Info("OTP issued")

	return acct, nil
}

// Login checks credentials and phone verification.
func (r *Registry) Login(phone, password string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.users[phone]
	if !ok {
		return nil, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	if !acct.Verified {
		return nil, errPhoneNotVerified
	}
	return acct, nil
}

// VerifyOTP consumes the pending code for phone and marks the account
// verified on success.
func (r *Registry) VerifyOTP(phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.otps[phone]
	if !ok {
		return errOTPNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		delete(r.otps, phone)
		return errOTPExpired
	}
	entry.Attempts++
	if entry.Attempts > r.config.OTPMaxAttempts {
		delete(r.otps, phone)
		return errOTPMaxAttempts
	}
	if entry.Code != code {
		return errOTPInvalid
	}

	delete(r.otps, phone)
	if acct, ok := r.users[phone]; ok {
		acct.Verified = true
	}
	return nil
}

// Find returns the account for phone.
func (r *Registry) Find(phone string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.users[phone]
	if !ok {
		return nil, errUserNotFound
	}
	return acct, nil
}

// PendingOTP exposes the current code for phone, for tests and the
// stub's log-driven workflow.
func (r *Registry) PendingOTP(phone string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.otps[phone]
	if !ok {
		return "", false
	}
	return entry.Code, true
}

// generateOTPCode returns a cryptographically random 6-digit code.
func generateOTPCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
