package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/productmanager/manager_api/internal/handler"
	"github.com/productmanager/manager_api/internal/utils"
)

// JWTMiddleware verifies bearer tokens and exposes the acting user to handlers.
type JWTMiddleware struct {
	secret      string
	rateLimiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware constructs a JWTMiddleware verifying HS256 tokens signed with secret.
func NewJWTMiddleware(secret string, rateLimiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{secret: secret, rateLimiter: rateLimiter}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if m.rateLimiter != nil && m.rateLimiter.Blocked(ip) {
			utils.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many invalid authentication attempts")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, ip, "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(c, ip, "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(m.secret, parts[1])
		if err != nil {
			log.Debug().Err(err).Str("ip", ip).Msg("token rejected")
			m.reject(c, ip, "Invalid or expired token")
			return
		}

		c.Set(handler.ContextUserCode, claims.UserCode)
		c.Set(handler.ContextUserEmail, claims.Email)
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, ip, message string) {
	if m.rateLimiter != nil {
		m.rateLimiter.Record(ip)
	}
	utils.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
