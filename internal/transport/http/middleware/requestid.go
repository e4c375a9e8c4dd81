package middleware

import (
	"github.com/ErlanBelekov/focusboard/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID adopts the caller's X-Request-ID when it is well formed, so a
// client log line and the backend's share one ID. Anything else is replaced
// by a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if !requestid.Valid(id) {
			id = requestid.New()
		}
		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
