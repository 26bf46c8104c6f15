package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextPhoneKey = "phone"

// BuildRouter wires the stub's endpoints.
func BuildRouter(h *Handlers, tokens *TokenService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/verify-otp", h.VerifyOTP)
	r.GET("/me", withBearer(tokens), h.Me)

	return r
}

// withBearer validates the Authorization header and stores the token's
// phone number on the request context.
func withBearer(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			reject(c, http.StatusUnauthorized, "Missing bearer token")
			c.Abort()
			return
		}
		phone, err := tokens.Validate(strings.TrimPrefix(header, prefix))
		if err != nil {
			reject(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}
		c.Set(contextPhoneKey, phone)
		c.Next()
	}
}
