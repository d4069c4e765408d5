// Package middleware holds the gin middleware chain of the API server.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
)

// HeaderRequestID is the header carrying the request id in and out.
const HeaderRequestID = "X-Request-ID"

// RequestID propagates the caller's request id, minting one when absent.
// The id rides the request context so logs and published events carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}
