package keyrunes

import (
	"context"
	"fmt"
	"strings"
)

// AdminGroup is the group the admin gate requires membership in.
const AdminGroup = "admins"

// bearerPrefix is matched case-sensitively; "bearer x" and "BEARER x" are
// rejected.
const bearerPrefix = "Bearer "

// Gate decides, per inbound request, whether a caller may proceed. It exposes
// exactly the two capabilities framework adapters may call: resolve an
// authorization header to a Principal, and gate a Principal on live group
// membership. Every decision is delegated to the remote service; the gate has
// no means to verify a credential locally, so each invocation is a full round
// trip.
//
// The extracted credential is threaded explicitly through each call and never
// written to the client's shared token store, so concurrently handled
// requests for different end users cannot observe each other's credentials.
type Gate struct {
	client *Client
}

// NewGate creates a Gate backed by the given client.
func NewGate(client *Client) *Gate {
	return &Gate{client: client}
}

// GroupGrant is the outcome of a successful group-gated request: the resolved
// Principal and the group the live membership query confirmed.
type GroupGrant struct {
	Principal *Principal
	GroupID   string
}

// Authenticate resolves the value of an inbound Authorization header to a
// Principal.
//
// The header must start with the literal "Bearer " prefix; an absent header
// or one without that exact prefix is rejected with invalid_token and no
// remote call. Otherwise the extracted credential is verified remotely and a
// fresh Principal is returned. Failures are terminal for the request; there
// are no retries.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (*Principal, error) {
	token, err := extractBearer(authorization)
	if err != nil {
		return nil, err
	}
	return g.client.CurrentUserWithToken(ctx, token)
}

// RequireGroup composes Authenticate with a live group-membership query. A
// negative membership result is an authorization_error naming the required
// group. The Principal's own Groups set is never consulted; membership must
// be fresh.
func (g *Gate) RequireGroup(ctx context.Context, authorization, groupID string) (*GroupGrant, error) {
	if groupID == "" {
		return nil, &Error{Kind: KindOther, Message: "group identifier required"}
	}

	token, err := extractBearer(authorization)
	if err != nil {
		return nil, err
	}

	principal, err := g.client.CurrentUserWithToken(ctx, token)
	if err != nil {
		return nil, err
	}

	has, err := g.client.HasGroupWithToken(ctx, token, principal.ID, groupID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, &Error{
			Kind:    KindAuthorization,
			Message: fmt.Sprintf("user does not belong to group %q", groupID),
		}
	}

	return &GroupGrant{Principal: principal, GroupID: groupID}, nil
}

// RequireAdmin is RequireGroup hardcoded to the AdminGroup group.
func (g *Gate) RequireAdmin(ctx context.Context, authorization string) (*GroupGrant, error) {
	return g.RequireGroup(ctx, authorization, AdminGroup)
}

// extractBearer validates the Authorization header shape and returns the raw
// credential.
func extractBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrMissingBearer
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return "", ErrMalformedBearer
	}
	return strings.TrimPrefix(authorization, bearerPrefix), nil
}
