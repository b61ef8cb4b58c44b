package httpx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ClampInt — v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// QueryLimit — limit из query с дефолтом; нечисловое значение → дефолт, границы [1, maxLimit].
func QueryLimit(c *gin.Context, defaultLimit, maxLimit int) int {
	limit := defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}
	return ClampInt(limit, 1, maxLimit)
}

// QueryInterval — длительность из query (Go-формат "5s" или секунды "5").
// Отсутствует → 0; вне [lo, hi] или не парсится → ошибка.
func QueryInterval(c *gin.Context, name string, lo, hi time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
		}
		d = time.Duration(secs) * time.Second
	}
	if d < lo || d > hi {
		return 0, fmt.Errorf("%s: must be within [%s, %s]", name, lo, hi)
	}
	return d, nil
}

// BearerToken — токен из заголовка Authorization: Bearer <token>.
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// QueryFlag — булев флаг query: 1/true/yes.
func QueryFlag(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
