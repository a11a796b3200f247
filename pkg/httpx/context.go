package httpx

import (
	"context"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
)

type ctxKey string

const (
	// CtxKeyPrincipal holds the *keyrunes.Principal resolved for the request.
	CtxKeyPrincipal ctxKey = "principal"
	// CtxKeyGroupID holds the group identifier a group gate confirmed.
	CtxKeyGroupID ctxKey = "group_id"
)

// PrincipalFromContext returns the Principal an authentication middleware
// attached to the request context.
func PrincipalFromContext(ctx context.Context) (*keyrunes.Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(*keyrunes.Principal)
	return p, ok
}

// GroupFromContext returns the group identifier a group middleware confirmed
// membership in.
func GroupFromContext(ctx context.Context) (string, bool) {
	g, ok := ctx.Value(CtxKeyGroupID).(string)
	return g, ok
}

func contextWithPrincipal(ctx context.Context, p *keyrunes.Principal) context.Context {
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

func contextWithGrant(ctx context.Context, grant *keyrunes.GroupGrant) context.Context {
	ctx = contextWithPrincipal(ctx, grant.Principal)
	return context.WithValue(ctx, CtxKeyGroupID, grant.GroupID)
}
