package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyHeader is the alternative to a Bearer Authorization header.
const APIKeyHeader = "X-API-Key"

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":            {},
	"/metrics":           {},
	"/mcp/manifest.json": {},
}

// APIKeyMiddleware returns a middleware that validates API keys sent as
// "Authorization: Bearer <key>" or "X-API-Key: <key>".
// If apiKeys is empty, authentication is disabled (pass-through).
func APIKeyMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var validKeys []string
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, k)
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			key, msg := presentedKey(r)
			if key == "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			if !knownKey(validKeys, key) {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// presentedKey returns the key sent by the client, or "" and a reason.
func presentedKey(r *http.Request) (string, string) {
	if k := strings.TrimSpace(r.Header.Get(APIKeyHeader)); k != "" {
		return k, ""
	}
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing api key"
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}
	if k := strings.TrimSpace(auth[len(bearerPrefix):]); k != "" {
		return k, ""
	}
	return "", "missing api key"
}

func knownKey(keys []string, key string) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}
