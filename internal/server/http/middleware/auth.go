package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/gopherdine/internal/pkg/auth"
)

const (
	// CustomerIDContextKey is a gin context key for authenticated customer identifier.
	CustomerIDContextKey = "customerID"
	authCookieName       = "gopherdine_token"
)

// TokenParser resolves a bearer token to a customer ID.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AuthRequired ensures customer is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		customerID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(CustomerIDContextKey, customerID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie and header to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
