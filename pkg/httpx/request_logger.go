package httpx

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
)

// RequestLogger — строка лога на каждый запрос (кроме /ping и /metrics).
// request_id и trace_id добавляет сам логгер из контекста.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch path {
		case "/metrics", "/ping":
			return
		case "":
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			log.Warnf(ctx, "request method=%s path=%s status=%d duration=%s errors=%s",
				c.Request.Method, path, c.Writer.Status(), time.Since(start), strings.Join(errs.Errors(), "; "))
			return
		}
		log.Infof(ctx, "request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start), c.Writer.Size())
	}
}
