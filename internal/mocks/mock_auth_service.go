package mocks

import (
	"context"

	"github.com/w3bpiyush/pustakghar/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	LoginFunc     func(ctx context.Context, phone, password string) (*domain.UserData, string, error)
	RegisterFunc  func(ctx context.Context, phone, password, name string) (*domain.UserData, string, error)
	VerifyOTPFunc func(ctx context.Context, phone, otp string) (string, error)
	MeFunc        func(ctx context.Context, token string) (*domain.UserData, error)

	// Call counters for asserting which endpoints were hit
	LoginCalls     int
	RegisterCalls  int
	VerifyOTPCalls int
	MeCalls        int
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Login implements domain.AuthService
func (m *MockAuthService) Login(ctx context.Context, phone, password string) (*domain.UserData, string, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, phone, password)
	}
	// Default behavior: successful login with a fixed token
	return &domain.UserData{
		Name:        "Test User",
		PhoneNumber: phone,
		Token:       "mock-token",
	}, "Welcome", nil
}

// Register implements domain.AuthService
func (m *MockAuthService) Register(ctx context.Context, phone, password, name string) (*domain.UserData, string, error) {
	m.RegisterCalls++
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, phone, password, name)
	}
	return &domain.UserData{
		Name:        name,
		PhoneNumber: phone,
		Token:       "mock-token",
	}, "Registered", nil
}

// VerifyOTP implements domain.AuthService
func (m *MockAuthService) VerifyOTP(ctx context.Context, phone, otp string) (string, error) {
	m.VerifyOTPCalls++
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, otp)
	}
	// Default behavior: accept "123456" as valid OTP
	if otp == "123456" {
		return "Verified", nil
	}
	return "", &domain.RejectionError{Message: "Invalid OTP"}
}

// Me implements domain.AuthService
func (m *MockAuthService) Me(ctx context.Context, token string) (*domain.UserData, error) {
	m.MeCalls++
	if m.MeFunc != nil {
		return m.MeFunc(ctx, token)
	}
	return &domain.UserData{
		Name:        "Test User",
		PhoneNumber: "9800000000",
	}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
