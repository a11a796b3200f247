package httpx

import (
	"net/http"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
	"github.com/keyrunes/keyrunes-go/pkg/slogx"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// RequireUser authenticates each request through the gate: the Authorization
// header is resolved to a Principal via a remote round trip, and the
// Principal is attached to the request context. Rejections are written per
// WriteGateError (missing/invalid/rejected credentials all surface as 401).
func RequireUser(gate *keyrunes.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := gate.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				slogx.FromContext(ctx).Warn("authentication rejected",
					"kind", keyrunes.KindOf(err), "err", err)
				WriteGateError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(ctx, principal)))
		})
	}
}
