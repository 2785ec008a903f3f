package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/models"
	"github.com/pdihub/pdihub/internal/security"
	"github.com/pdihub/pdihub/internal/service"
)

// ActorKey is the gin context key for the resolved acting identity.
const ActorKey = "actor"

// authTimingFloor is the minimum response time for failed auth to prevent
// timing oracles that could distinguish valid from invalid session tokens.
const authTimingFloor = 50 * time.Millisecond

// ActorLookup resolves a session token to the acting identity.
type ActorLookup interface {
	GetActorBySessionToken(ctx context.Context, token string) (*models.Actor, error)
}

// truncateToken returns at most the first 4 characters of token followed by "...".
func truncateToken(token string) string {
	if len(token) > 4 {
		return token[:4] + "..."
	}

	return token
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via a
// Bearer session token and stores the resolved actor in the context. It also
// stamps the request context with the client IP and user agent so audit
// entries downstream can record them.
// If a BruteForceGuard is provided, failed attempts are tracked per token hash.
func AuthMiddleware(lookup ActorLookup, log *logrus.Logger, guards ...*security.BruteForceGuard) gin.HandlerFunc {
	var guard *security.BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")

			return
		}

		if guard != nil && guard.IsBlocked(token) {
			respondError(c, http.StatusUnauthorized, "unauthorized", "too many failed attempts, try again later")

			return
		}

		actor, err := lookup.GetActorBySessionToken(c.Request.Context(), token)
		if err != nil {
			logAuthFailure(log, c, token)

			if guard != nil {
				guard.RecordFailure(token)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session")

			return
		}

		if guard != nil {
			guard.ResetToken(token)
		}

		c.Set(ActorKey, actor)

		meta := service.RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
		c.Request = c.Request.WithContext(service.WithRequestMeta(c.Request.Context(), meta))

		c.Next()
	}
}

// ActorFromContext returns the authenticated actor, or nil when the request
// did not pass AuthMiddleware.
func ActorFromContext(c *gin.Context) *models.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}

	actor, ok := v.(*models.Actor)
	if !ok {
		return nil
	}

	return actor
}

// ExtractBearerToken extracts the session token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, token string) {
	log.WithFields(logrus.Fields{
		"client_ip":    c.ClientIP(),
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"user_agent":   c.Request.UserAgent(),
		"request_id":   c.GetString("request_id"),
		"token_prefix": truncateToken(token),
	}).Warn("authentication failed: invalid session token")
}
