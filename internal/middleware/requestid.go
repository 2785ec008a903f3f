package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key holding the canonical request ID.
	RequestIDKey = "request_id"

	// ClientRequestIDKey is the gin context key holding the ID the client
	// sent, when it sent one.
	ClientRequestIDKey = "client_request_id"

	// RequestIDHeader is the HTTP header carrying the request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestID returns middleware that assigns every request a fresh UUID and
// echoes it in the response header. A client-supplied X-Request-ID is never
// trusted as the canonical ID; it is kept alongside for log correlation so
// tablet submissions can be matched to their retries.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		if clientID := c.GetHeader(RequestIDHeader); clientID != "" {
			c.Set(ClientRequestIDKey, clientID)
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
			}).Debug("request carried a client request ID")
		}

		c.Next()
	}
}
