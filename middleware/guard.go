// Package middleware provides net/http glue for protecting routes with an
// authpair Engine.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avdeevm/authpair"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity Guard resolved for this
// request, if any.
func IdentityFromContext(ctx context.Context) (*authpair.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*authpair.Identity)
	return id, ok
}

// Guard wraps a handler so it only runs for requests carrying a bearer
// access token the engine accepts. The token is resolved once and the
// identity travels down in the request context; handlers read it back
// with [IdentityFromContext]. Rejections answer with the engine's status
// mapping, so a superseded token gets 403 while a garbage one gets 401.
func Guard(engine *authpair.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			identity, err := engine.ValidateAccess(r.Context(), raw)
			if err != nil {
				code := authpair.StatusCode(err)
				http.Error(w, http.StatusText(code), code)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
