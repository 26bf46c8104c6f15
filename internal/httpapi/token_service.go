package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errTokenInvalid = errors.New("invalid token")

// TokenService issues and validates the stub's HS256 session tokens.
// The phone number is the subject claim.
type TokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewTokenService creates a token service.
func NewTokenService(secretKey, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// generateJTI creates a unique JWT ID
func (t *TokenService) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Generate issues a token for the given phone number.
func (t *TokenService) Generate(phone string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": phone,
		"iss": t.issuer,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
		"jti": t.generateJTI(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secretKey)
}

// Validate parses a token and returns the phone number it was issued
// for.
func (t *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return t.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", errTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errTokenInvalid
	}
	phone, ok := claims["sub"].(string)
	if !ok || phone == "" {
		return "", errTokenInvalid
	}
	return phone, nil
}
