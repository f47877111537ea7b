// Package middleware holds the HTTP middleware shared by all API routes.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/sigco3111/core-quant/internal/api/response"
	"github.com/sigco3111/core-quant/internal/core"
)

// apiKeyHeader carries the shared service key. Caller identity travels
// separately in X-User-ID; the key only gates access to the service.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests whose X-API-Key header does not match
// apiKey. An empty apiKey disables the check entirely, the local
// development default.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		want := []byte(apiKey)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(apiKeyHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrUnauthorized, nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
