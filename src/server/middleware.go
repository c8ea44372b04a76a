package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sigmaforge/SixSigmaCharter/src/logging"
)

// requestIDKey is the gin context key carrying the per-request id.
const requestIDKey = "request_id"

// RequestID attaches a UUID to every request for log correlation, honoring a
// caller-supplied X-Request-Id when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// AccessLog writes one line per request after completion.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Infof("%s %s -> %d in %s request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Round(time.Microsecond), c.GetString(requestIDKey))
	}
}
