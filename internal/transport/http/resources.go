package rest

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/ports"
	"github.com/Gunvolt24/storefront-prefetch/pkg/httpx"
	"github.com/gin-gonic/gin"
)

const (
	maxMutationBody = 1 << 20
	maxPrefetchList = 100

	minWatchInterval = time.Second
	maxWatchInterval = time.Hour
)

// resourceRequest — путь и query ресурса без служебных параметров.
func resourceRequest(c *gin.Context, path string, service ...string) ports.ResourceRequest {
	query := url.Values{}
	for k, v := range c.Request.URL.Query() {
		query[k] = v
	}
	for _, name := range service {
		query.Del(name)
	}
	return ports.ResourceRequest{
		Path:  path,
		Query: query,
		Token: httpx.BearerToken(c),
	}
}

func (h *Handler) getResource(c *gin.Context) {
	req := resourceRequest(c, c.Param("path"), "fresh")
	req.Fresh = httpx.QueryFlag(c, "fresh")

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	data, err := h.resources.Get(ctx, req)
	if err != nil {
		h.writeError(c, "get resource path="+req.Path, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) mutateResource(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxMutationBody))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
		return
	}
	req := resourceRequest(c, c.Param("path"))

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	code, resp, err := h.resources.Mutate(ctx, c.Request.Method, req, body)
	if err != nil {
		h.writeError(c, "mutate resource method="+c.Request.Method+" path="+req.Path, err)
		return
	}
	if len(resp) == 0 {
		c.Status(code)
		return
	}
	c.Data(code, "application/json; charset=utf-8", resp)
}

type prefetchRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

func (h *Handler) prefetch(c *gin.Context) {
	var body prefetchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paths: non-empty list is required"})
		return
	}
	if len(body.Paths) > maxPrefetchList {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paths: too many entries"})
		return
	}

	// прогрев фоновый: ответ не ждёт загрузок
	accepted := h.resources.Warm(c.Request.Context(), httpx.BearerToken(c), body.Paths)
	c.JSON(http.StatusAccepted, gin.H{"accepted": accepted})
}

func (h *Handler) hint(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	h.resources.Hint(c.Request.Context(), httpx.BearerToken(c), path)
	c.Status(http.StatusAccepted)
}

func (h *Handler) batch(c *gin.Context) {
	paths := c.QueryArray("path")
	if len(paths) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one path is required"})
		return
	}
	if len(paths) > maxPrefetchList {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path: too many entries"})
		return
	}

	ctx, cancel := h.reqCtx(c)
	defer cancel()

	out, err := h.resources.Batch(ctx, httpx.BearerToken(c), paths)
	if err != nil {
		h.writeError(c, "batch", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) watch(c *gin.Context) {
	interval, err := httpx.QueryInterval(c, "interval", minWatchInterval, maxWatchInterval)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req := resourceRequest(c, c.Param("path"), "interval")

	ctx := c.Request.Context()
	states := make(chan ports.ResourceState, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := h.resources.Watch(ctx, req, interval, func(s ports.ResourceState) {
			select {
			case states <- s:
			case <-ctx.Done():
			}
		}); err != nil {
			h.log.Warnf(ctx, "watch stopped path=%s err=%v", req.Path, err)
		}
	}()

	stream(c, "state", states, done)
}
