package rest

import (
	"context"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps — зависимости HTTP-слоя. Orders и Alerts могут быть nil (поллер/журнал выключены).
type Deps struct {
	Resources ports.ResourceReader
	Cache     ports.CacheAdmin
	Orders    ports.OrderFeed
	Alerts    ports.AlertReader
	Log       ports.Logger
}

type Handler struct {
	resources  ports.ResourceReader
	cache      ports.CacheAdmin
	orders     ports.OrderFeed
	alerts     ports.AlertReader
	log        ports.Logger
	reqTimeout time.Duration
}

// NewHandler — конструктор; reqTimeout <= 0 отключает таймаут обработчика.
func NewHandler(d Deps, reqTimeout time.Duration) *Handler {
	return &Handler{
		resources:  d.Resources,
		cache:      d.Cache,
		orders:     d.Orders,
		alerts:     d.Alerts,
		log:        d.Log,
		reqTimeout: reqTimeout,
	}
}

// NewRouter — gin-роутер сервиса. Пустой otelServiceName отключает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/*path", h.getResource)
	for _, method := range []string{"POST", "PUT", "PATCH", "DELETE"} {
		api.Handle(method, "/*path", h.mutateResource)
	}

	r.POST("/prefetch", h.prefetch)
	r.POST("/hint", h.hint)
	r.GET("/batch", h.batch)
	r.GET("/watch/*path", h.watch)

	cache := r.Group("/cache")
	cache.GET("/stats", h.cacheStats)
	cache.DELETE("", h.cacheClear)
	cache.DELETE("/key/*key", h.cacheInvalidate)
	cache.DELETE("/prefix/*prefix", h.cacheInvalidatePrefix)

	orders := r.Group("/orders/my")
	orders.GET("", h.ordersSnapshot)
	orders.POST("/refresh", h.ordersRefresh)
	orders.GET("/stream", h.ordersStream)

	r.GET("/alerts", h.listAlerts)

	return r
}

// reqCtx — контекст запроса с таймаутом обработчика (не для SSE).
func (h *Handler) reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.reqTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.reqTimeout)
}
