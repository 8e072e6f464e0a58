package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/auth"
	"blog-server-go/internal/domain/ratelimit"
	"blog-server-go/internal/platform/logging"
)

const accountIDKey = "account_id"

// AccountID returns the authenticated account attached to the request.
func AccountID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// RequireAuth gates a route group behind a valid access token, taken from
// the Authorization header or, failing that, the session cookie. Any
// verification failure short-circuits with 401 before the handler runs.
func RequireAuth(issuer *auth.Issuer, cookieName string, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"message": "authentication required"})
			return
		}

		accountID, err := issuer.Verify(token, auth.KindAccess)
		if err != nil {
			logger.Debug("access token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid access token is present
// but never rejects the request. Read-only routes use it to personalize
// responses for logged-in callers.
func OptionalAuth(issuer *auth.Issuer, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}
		if token != "" {
			if accountID, err := issuer.Verify(token, auth.KindAccess); err == nil {
				c.Set(accountIDKey, accountID)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// RateLimit rejects clients past the limiter's fixed-window threshold.
// Counters are keyed by client address; a broken counter backend lets
// requests through rather than failing the API.
func RateLimit(limiter *ratelimit.Limiter, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit store unavailable: %v", err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "too many requests from this address, please try again later",
			})
			return
		}
		c.Next()
	}
}
