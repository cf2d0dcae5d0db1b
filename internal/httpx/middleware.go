// Package httpx carries the cross-cutting gin middleware for the API.
package httpx

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ridKey = "request_id"

// RequestID tags the request with an id, honoring one supplied by the
// caller, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// Logger writes one line per request: id, method, route template,
// status and bytes written. Unmatched requests log the raw path.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log.Printf("[http] rid=%s %s %s -> %d %dB in %s",
			c.GetString(ridKey), c.Request.Method, route,
			c.Writer.Status(), c.Writer.Size(), time.Since(start))
	}
}
