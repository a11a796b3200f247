package httpx

import (
	"net/http"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
	"github.com/keyrunes/keyrunes-go/pkg/slogx"
)

// GroupQueryParam is the query parameter RequireGroup reads the required
// group identifier from.
const GroupQueryParam = "group_id"

// RequireGroup gates each request on membership in the group named by the
// request's group_id query parameter. A missing parameter is a 400, distinct
// from a failed membership check (403); no remote call is made for it.
func RequireGroup(gate *keyrunes.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			groupID := r.URL.Query().Get(GroupQueryParam)
			if groupID == "" {
				WriteJSON(w, http.StatusBadRequest, map[string]string{
					"error": "missing group_id parameter",
				})
				return
			}

			grant, err := gate.RequireGroup(ctx, r.Header.Get("Authorization"), groupID)
			if err != nil {
				slogx.FromContext(ctx).Warn("group gate rejected",
					"group_id", groupID, "kind", keyrunes.KindOf(err), "err", err)
				WriteGateError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithGrant(ctx, grant)))
		})
	}
}

// RequireAdmin gates each request on membership in the "admins" group.
func RequireAdmin(gate *keyrunes.Gate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			grant, err := gate.RequireAdmin(ctx, r.Header.Get("Authorization"))
			if err != nil {
				slogx.FromContext(ctx).Warn("admin gate rejected",
					"kind", keyrunes.KindOf(err), "err", err)
				WriteGateError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithGrant(ctx, grant)))
		})
	}
}
