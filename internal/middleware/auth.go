// Package middleware holds the gin middleware for admin sessions, cron
// authentication, and request rate limiting.
package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"proofdeck-backend/internal/models"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_session"

// AuthActorKey is the context key naming which credential authenticated the
// request ("cron" or "admin") on routes accepting scheduler auth.
const AuthActorKey = "authActor"

// SessionDuration is how long an admin login stays valid.
const SessionDuration = 24 * time.Hour

// MintSessionToken issues a signed admin session JWT.
func MintSessionToken(sessionSecret string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(SessionDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func validateSessionToken(tokenString, sessionSecret string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(sessionSecret), nil
	})
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}

// RequireAdmin authenticates staff requests via the session cookie. When no
// session secret is configured, admin routes are disabled outright.
func RequireAdmin(sessionSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionSecret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "admin_disabled",
				Message: "Admin authentication is not configured",
			})
			return
		}

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
			return
		}
		if err := validateSessionToken(cookie, sessionSecret); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func cronAuthorized(c *gin.Context, cronSecret string) bool {
	if cronSecret == "" {
		return false
	}
	token := bearerToken(c)
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(cronSecret)) == 1
}

// RequireCron authenticates scheduled-job requests with the shared cron secret.
func RequireCron(cronSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cronSecret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "cron_disabled",
				Message: "Cron authentication is not configured",
			})
			return
		}
		if !cronAuthorized(c, cronSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid cron secret",
			})
			return
		}
		c.Set(AuthActorKey, "cron")
		c.Next()
	}
}

// RequireCronOrAdmin accepts either a cron bearer token or an admin session,
// for endpoints triggered both by schedulers and by staff.
func RequireCronOrAdmin(cronSecret, sessionSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cronAuthorized(c, cronSecret) {
			c.Set(AuthActorKey, "cron")
			c.Next()
			return
		}
		if sessionSecret != "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
				if validateSessionToken(cookie, sessionSecret) == nil {
					c.Set(AuthActorKey, "admin")
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
	}
}
