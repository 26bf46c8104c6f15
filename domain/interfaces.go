package domain

import "context"

// AuthService is the client-side view of the remote auth API.
// The string returned by Login/Register/VerifyOTP is the server's
// human-readable success message.
type AuthService interface {
	Login(ctx context.Context, phone, password string) (*UserData, string, error)
	Register(ctx context.Context, phone, password, name string) (*UserData, string, error)
	VerifyOTP(ctx context.Context, phone, otp string) (string, error)
	Me(ctx context.Context, token string) (*UserData, error)
}

// CredentialStore persists the single opaque session token in the
// device keystore. Get returns an empty string with a nil error when
// no token is stored; Delete on an empty slot is a no-op.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
