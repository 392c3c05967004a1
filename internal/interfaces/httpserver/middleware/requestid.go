package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Plaqueminier/m3u8-viewer/utils/requestid"
)

// HeaderRequestID is the response header carrying the request correlation id.
const HeaderRequestID = "X-Request-ID"

const contextKeyRequestID = "request_id"

// RequestID assigns a ULID to every request, honoring one supplied by the
// caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = requestid.New()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// FromContext returns the request id assigned by RequestID.
func FromContext(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
