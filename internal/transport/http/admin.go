package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
	"github.com/Gunvolt24/storefront-prefetch/pkg/httpx"
	"github.com/gin-gonic/gin"
)

const (
	defaultAlertsLimit = 50
	maxAlertsLimit     = 500
)

func (h *Handler) cacheStats(c *gin.Context) {
	stats := h.cache.Stats()
	c.JSON(http.StatusOK, gin.H{"count": len(stats), "entries": stats})
}

func (h *Handler) cacheClear(c *gin.Context) {
	h.cache.Clear()
	h.log.Infof(c.Request.Context(), "cache cleared")
	c.Status(http.StatusNoContent)
}

func (h *Handler) cacheInvalidate(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty key"})
		return
	}
	h.cache.Invalidate(key)
	c.Status(http.StatusNoContent)
}

func (h *Handler) cacheInvalidatePrefix(c *gin.Context) {
	prefix := strings.TrimPrefix(c.Param("prefix"), "/")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty prefix, use DELETE /cache to drop everything"})
		return
	}
	removed := h.cache.InvalidatePrefix(prefix)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

type ordersResponse struct {
	Orders    []domain.Order `json:"orders"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (h *Handler) ordersEnabled(c *gin.Context) bool {
	if h.orders == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "order polling is disabled"})
		return false
	}
	return true
}

func (h *Handler) ordersSnapshot(c *gin.Context) {
	if !h.ordersEnabled(c) {
		return
	}
	orders, at := h.orders.Snapshot()
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, ordersResponse{Orders: orders, UpdatedAt: at})
}

func (h *Handler) ordersRefresh(c *gin.Context) {
	if !h.ordersEnabled(c) {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.orders.RefreshNow(ctx, httpx.BearerToken(c)); err != nil {
		h.writeError(c, "orders refresh", err)
		return
	}
	h.ordersSnapshot(c)
}

func (h *Handler) ordersStream(c *gin.Context) {
	if !h.ordersEnabled(c) {
		return
	}
	updates := make(chan ordersResponse, 8)
	push := func(orders []domain.Order, at time.Time) {
		if orders == nil {
			orders = []domain.Order{}
		}
		select {
		case updates <- ordersResponse{Orders: orders, UpdatedAt: at}:
		default:
			// медленный клиент: промежуточный снимок можно пропустить
		}
	}

	unsubscribe := h.orders.Subscribe(func(orders []domain.Order) {
		_, at := h.orders.Snapshot()
		push(orders, at)
	})
	defer unsubscribe()

	push(h.orders.Snapshot())
	stream(c, "orders", updates, nil)
}

func (h *Handler) listAlerts(c *gin.Context) {
	if h.alerts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert journal is disabled"})
		return
	}
	limit := httpx.QueryLimit(c, defaultAlertsLimit, maxAlertsLimit)

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	alerts, err := h.alerts.ListRecent(ctx, limit)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "list alerts failed limit=%d err=%v", limit, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
