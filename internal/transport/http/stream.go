package rest

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// stream — пишет события из ch как SSE до закрытия done или ухода клиента.
// После done вычитывает уже накопленные события, чтобы не терять последние состояния.
func stream[T any](c *gin.Context, event string, ch <-chan T, done <-chan struct{}) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// WriteTimeout сервера не должен обрывать долгий поток
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case v := <-ch:
			c.SSEvent(event, v)
			return true
		case <-done:
			for {
				select {
				case v := <-ch:
					c.SSEvent(event, v)
				default:
					return false
				}
			}
		case <-ctx.Done():
			return false
		}
	})
}
