package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Gunvolt24/storefront-prefetch/internal/polling"
	"github.com/Gunvolt24/storefront-prefetch/internal/prefetch"
	"github.com/Gunvolt24/storefront-prefetch/internal/upstream"
	"github.com/gin-gonic/gin"
)

// writeError — маппинг ошибок в HTTP-ответ.
// 4xx апстрима отдаются как есть, остальные сбои апстрима → 502.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	var se *upstream.StatusError
	switch {
	case errors.As(err, &se) && se.Code >= 400 && se.Code < 500:
		if json.Valid(se.Body) {
			c.Data(se.Code, "application/json; charset=utf-8", se.Body)
			return
		}
		c.JSON(se.Code, gin.H{"error": http.StatusText(se.Code)})
		return
	case errors.Is(err, polling.ErrNoToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bearer token is required"})
		return
	case errors.Is(err, prefetch.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service is shutting down"})
		return
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(c.Request.Context(), "%s timed out err=%v", op, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"})
		return
	case errors.Is(err, context.Canceled):
		// клиент ушёл, отвечать некому
		c.Status(499)
		return
	}

	h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
}
