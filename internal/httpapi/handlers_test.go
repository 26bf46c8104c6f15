package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelopeBody struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	registry := NewRegistry(RegistryConfig{OTPTTL: time.Minute, OTPMaxAttempts: 3}, logger)
	tokens := NewTokenService("test-secret", "pustakghar-stub", time.Hour)
	srv := httptest.NewServer(BuildRouter(NewHandlers(registry, tokens), tokens))
	t.Cleanup(srv.Close)
	return srv, registry
}

func postJSON(t *testing.T, url string, body interface{}) envelopeBody {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelopeBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func getMe(t *testing.T, url, token string) (int, envelopeBody) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url+"/me", nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelopeBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestAuthFlow(t *testing.T) {
	srv, registry := newTestServer(t)

	// Register
	env := postJSON(t, srv.URL+"/register", map[string]string{
		"phone": "9800000000", "password": "secret1", "user_name": "Asha",
	})
	require.True(t, env.Status, "register should succeed: %s", env.Message)
	assert.Equal(t, "Asha", env.Data["user_name"])
	assert.Equal(t, "9800000000", env.Data["user_number"])
	assert.NotEmpty(t, env.Data["token"])

	// Duplicate registration is rejected
	env = postJSON(t, srv.URL+"/register", map[string]string{
		"phone": "9800000000", "password": "secret1", "user_name": "Asha",
	})
	assert.False(t, env.Status)
	assert.Equal(t, "User already exists", env.Message)

	// Login before OTP verification is rejected
	env = postJSON(t, srv.URL+"/login", map[string]string{
		"phone": "9800000000", "password": "secret1",
	})
	assert.False(t, env.Status)
	assert.Equal(t, "Phone number not verified", env.Message)

	// Wrong OTP
	env = postJSON(t, srv.URL+"/verify-otp", map[string]string{
		"phone": "9800000000", "otp": "000000",
	})
	assert.False(t, env.Status)
	assert.Equal(t, "Invalid OTP", env.Message)

	// Right OTP
	code, okPending := registry.PendingOTP("9800000000")
	require.True(t, okPending)
	env = postJSON(t, srv.URL+"/verify-otp", map[string]string{
		"phone": "9800000000", "otp": code,
	})
	require.True(t, env.Status, "verify should succeed: %s", env.Message)
	assert.Equal(t, "Phone number verified", env.Message)

	// Login now succeeds
	env = postJSON(t, srv.URL+"/login", map[string]string{
		"phone": "9800000000", "password": "secret1",
	})
	require.True(t, env.Status, "login should succeed: %s", env.Message)
	token := env.Data["token"]
	require.NotEmpty(t, token)

	// Wrong password
	env = postJSON(t, srv.URL+"/login", map[string]string{
		"phone": "9800000000", "password": "wrongpass",
	})
	assert.False(t, env.Status)
	assert.Equal(t, "Invalid credentials", env.Message)

	// Me with the issued token
	code2, env := getMe(t, srv.URL, token)
	assert.Equal(t, http.StatusOK, code2)
	require.True(t, env.Status)
	assert.Equal(t, "Asha", env.Data["user_name"])
	assert.Empty(t, env.Data["token"], "me must not return a token")
}

func TestMe_RejectsBadTokens(t *testing.T) {
	srv, _ := newTestServer(t)

	status, env := getMe(t, srv.URL, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Status)

	status, env = getMe(t, srv.URL, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Status)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestVerifyOTP_AttemptsAndExpiry(t *testing.T) {
	srv, registry := newTestServer(t)

	env := postJSON(t, srv.URL+"/register", map[string]string{
		"phone": "9811111111", "password": "secret1", "user_name": "B",
	})
	require.True(t, env.Status)

	// Burn through the attempt budget with wrong codes.
	for i := 0; i < 3; i++ {
		env = postJSON(t, srv.URL+"/verify-otp", map[string]string{
			"phone": "9811111111", "otp": "000000",
		})
		assert.Equal(t, "Invalid OTP", env.Message)
	}
	env = postJSON(t, srv.URL+"/verify-otp", map[string]string{
		"phone": "9811111111", "otp": "000000",
	})
	assert.Equal(t, "Maximum OTP attempts exceeded", env.Message)

	// The entry is consumed; even the right code cannot verify now.
	if code, okPending := registry.PendingOTP("9811111111"); okPending {
		env = postJSON(t, srv.URL+"/verify-otp", map[string]string{
			"phone": "9811111111", "otp": code,
		})
		assert.False(t, env.Status)
	}
}

func TestRegister_ValidatesInput(t *testing.T) {
	srv, _ := newTestServer(t)

	env := postJSON(t, srv.URL+"/register", map[string]string{
		"phone": "9800000000", "password": "abc", "user_name": "A",
	})
	assert.False(t, env.Status)
	assert.Equal(t, "Invalid request", env.Message)
}
