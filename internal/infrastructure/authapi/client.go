// Package authapi implements domain.AuthService over the remote JSON
// API. Every endpoint answers the same envelope: {status, message,
// data}; status:false is a domain rejection carrying message, anything
// the client cannot decode is treated as a transport failure.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/w3bpiyush/pustakghar/domain"
)

// Client is the HTTP implementation of domain.AuthService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a client for the auth API at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type registerRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	UserName string `json:"user_name"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Login implements domain.AuthService.
func (c *Client) Login(ctx context.Context, phone, password string) (*domain.UserData, string, error) {
	env, err := c.post(ctx, "/login", loginRequest{Phone: phone, Password: password})
	if err != nil {
		return nil, "", err
	}
	user, err := c.decodeUser(env, "/login")
	if err != nil {
		return nil, "", err
	}
	return user, env.Message, nil
}

// Register implements domain.AuthService.
func (c *Client) Register(ctx context.Context, phone, password, name string) (*domain.UserData, string, error) {
	env, err := c.post(ctx, "/register", registerRequest{Phone: phone, Password: password, UserName: name})
	if err != nil {
		return nil, "", err
	}
	user, err := c.decodeUser(env, "/register")
	if err != nil {
		return nil, "", err
	}
	return user, env.Message, nil
}

// VerifyOTP implements domain.AuthService.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (string, error) {
	env, err := c.post(ctx, "/verify-otp", verifyOTPRequest{Phone: phone, OTP: otp})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Me implements domain.AuthService. The returned profile carries no
// token; the caller merges the bearer token back in.
func (c *Client) Me(ctx context.Context, token string) (*domain.UserData, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	env, err := c.do(httpReq, "/me")
	if err != nil {
		return nil, err
	}

	var user domain.UserData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		c.logger.WithError(err).WithField("path", "/me").Error("malformed response data")
		return nil, domain.ErrServerDown
	}
	return &user, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*envelope, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, path)
}

// do sends the request and decodes the envelope. The HTTP status code
// is not consulted: the envelope's status field is authoritative, as
// long as the body decodes at all.
func (c *Client) do(req *http.Request, path string) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Error("auth api unreachable")
		return nil, domain.ErrServerDown
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"path":        path,
			"http_status": resp.StatusCode,
		}).Error("failed to decode response")
		return nil, domain.ErrServerDown
	}

	if !env.Status {
		return nil, &domain.RejectionError{Message: env.Message}
	}
	return &env, nil
}

// decodeUser parses the envelope's data into a profile and rejects
// responses that lack a token.
func (c *Client) decodeUser(env *envelope, path string) (*domain.UserData, error) {
	var user domain.UserData
	if len(env.Data) == 0 {
		c.logger.WithField("path", path).Error("response missing data")
		return nil, domain.ErrServerDown
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		c.logger.WithError(err).WithField("path", path).Error("malformed response data")
		return nil, domain.ErrServerDown
	}
	if user.Token == "" {
		c.logger.WithField("path", path).Error("response missing token")
		return nil, domain.ErrServerDown
	}
	return &user, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*Client)(nil)
