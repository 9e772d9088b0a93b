package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/shared/id"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// RequestID assigns each request a ULID-based ID, honoring an inbound
// X-Request-ID, echoes it on the response, and threads it into the
// request context so outbound peer calls propagate it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = id.NewRequestID().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(client.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// RequestIDFrom returns the ID assigned by RequestID, or empty.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
