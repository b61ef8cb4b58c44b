package normalize

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

var errTrailingData = errors.New("trailing data")

// first — значение первого присутствующего (не nil) поля.
func first(rec map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// str — строковое представление скаляра; для объектов и массивов пусто.
func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// num — число из числа или числовой строки; иначе 0.
func num(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func lower(s string) string {
	return strings.ToLower(s)
}

func timestamp(v any) time.Time {
	s := str(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// service — строка (название) или объект {id, name|title}.
func service(v any) domain.Service {
	switch t := v.(type) {
	case map[string]any:
		return domain.Service{
			ID:   str(t["id"]),
			Name: str(first(t, "name", "title")),
		}
	default:
		return domain.Service{Name: str(v)}
	}
}

// addresses — объект addresses, список [pickup, delivery] или плоские поля *_address.
func addresses(rec map[string]any) domain.Addresses {
	var a domain.Addresses

	switch t := rec["addresses"].(type) {
	case map[string]any:
		a.Pickup = address(first(t, "pickup", "from"))
		a.Delivery = address(first(t, "delivery", "to"))
	case []any:
		if len(t) > 0 {
			a.Pickup = address(t[0])
		}
		if len(t) > 1 {
			a.Delivery = address(t[1])
		}
	}

	if a.Pickup == "" {
		a.Pickup = address(rec["pickup_address"])
	}
	if a.Delivery == "" {
		a.Delivery = address(rec["delivery_address"])
	}
	return a
}

func address(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return str(first(obj, "address", "line", "full"))
	}
	return str(v)
}

// user — объект {id, name|full_name, phone} или голый идентификатор.
func user(v any) domain.User {
	if obj, ok := v.(map[string]any); ok {
		return domain.User{
			ID:    str(obj["id"]),
			Name:  str(first(obj, "name", "full_name")),
			Phone: str(obj["phone"]),
		}
	}
	return domain.User{ID: str(v)}
}
