package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

const (
	keyPrefix = "api:"
	anonScope = "anon"
)

// CacheKey — ключ кэша ресурса: api:<scope>:<path>[?<query>].
// scope — короткий хэш токена, чтобы данные разных пользователей не смешивались.
// url.Values.Encode сортирует параметры, поэтому порядок в запросе на ключ не влияет.
func CacheKey(token, path string, query url.Values) string {
	key := ScopePrefix(token) + cleanPath(path)
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	return key
}

// ScopePrefix — префикс всех ключей пользователя с этим токеном.
func ScopePrefix(token string) string {
	return keyPrefix + scope(token) + ":"
}

func scope(token string) string {
	if token == "" {
		return anonScope
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}

// cleanPath — путь с одним ведущим слэшем и без завершающего.
func cleanPath(path string) string {
	return "/" + strings.Trim(path, "/")
}

// parentPath — коллекция, к которой относится ресурс: /cart/items/7 → /cart/items.
func parentPath(path string) (string, bool) {
	p := cleanPath(path)
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "", false
	}
	return p[:i], true
}

// splitTarget — "products?page=2" → путь и параметры.
func splitTarget(target string) (string, url.Values, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", nil, err
	}
	return u.Path, u.Query(), nil
}
