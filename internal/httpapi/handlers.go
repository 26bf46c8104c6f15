package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers serves the auth endpoints over the production envelope:
// {status, message, data}.
type Handlers struct {
	registry *Registry
	tokens   *TokenService
}

// NewHandlers creates the auth handlers.
func NewHandlers(registry *Registry, tokens *TokenService) *Handlers {
	return &Handlers{registry: registry, tokens: tokens}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	UserName string `json:"user_name" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyOTPRequest represents an OTP verification request
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type userPayload struct {
	UserName   string `json:"user_name"`
	UserNumber string `json:"user_number"`
	Token      string `json:"token,omitempty"`
}

func reject(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"status": false, "message": message})
}

func ok(c *gin.Context, message string, data interface{}) {
	body := gin.H{"status": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// Register handles POST /register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, "Invalid request")
		return
	}

	acct, err := h.registry.Register(req.Phone, req.Password, req.UserName)
	if err != nil {
		if errors.Is(err, errUserExists) {
			reject(c, http.StatusConflict, "User already exists")
			return
		}
		reject(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.tokens.Generate(acct.Phone)
	if err != nil {
		reject(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	ok(c, "Registration successful. OTP sent to your number.", userPayload{
		UserName:   acct.Name,
		UserNumber: acct.Phone,
		Token:      token,
	})
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, "Invalid request")
		return
	}

	acct, err := h.registry.Login(req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errInvalidCredentials):
			reject(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, errPhoneNotVerified):
			reject(c, http.StatusForbidden, "Phone number not verified")
		default:
			reject(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	token, err := h.tokens.Generate(acct.Phone)
	if err != nil {
		reject(c, http.StatusInternalServerError, "Login failed")
		return
	}

	ok(c, "Welcome "+acct.Name, userPayload{
		UserName:   acct.Name,
		UserNumber: acct.Phone,
		Token:      token,
	})
}

// VerifyOTP handles POST /verify-otp
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := h.registry.VerifyOTP(req.Phone, req.OTP); err != nil {
		switch {
		case errors.Is(err, errOTPExpired):
			reject(c, http.StatusBadRequest, "OTP has expired")
		case errors.Is(err, errOTPMaxAttempts):
			reject(c, http.StatusBadRequest, "Maximum OTP attempts exceeded")
		case errors.Is(err, errOTPInvalid), errors.Is(err, errOTPNotFound):
			reject(c, http.StatusBadRequest, "Invalid OTP")
		default:
			reject(c, http.StatusInternalServerError, "OTP verification failed")
		}
		return
	}

	ok(c, "Phone number verified", nil)
}

// Me handles GET /me behind the bearer middleware.
func (h *Handlers) Me(c *gin.Context) {
	phone := c.GetString(contextPhoneKey)
	acct, err := h.registry.Find(phone)
	if err != nil {
		reject(c, http.StatusNotFound, "Failed to fetch user")
		return
	}

	ok(c, "ok", userPayload{
		UserName:   acct.Name,
		UserNumber: acct.Phone,
	})
}
