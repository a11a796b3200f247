package keyrunes

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// User resolution
// ============================================================================

// CurrentUser resolves the Principal for the credential in the token store.
// Fails with invalid_token, making no network call, when the store is empty.
func (c *Client) CurrentUser(ctx context.Context) (*Principal, error) {
	token, err := c.storedToken()
	if err != nil {
		return nil, err
	}
	return c.CurrentUserWithToken(ctx, token)
}

// CurrentUserWithToken resolves the Principal for an explicit bearer token.
// The token store is neither read nor written; this is the variant the gates
// use so concurrent requests never share credential state.
func (c *Client) CurrentUserWithToken(ctx context.Context, token string) (*Principal, error) {
	var p Principal
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// User fetches a user by id using the credential in the token store.
func (c *Client) User(ctx context.Context, id string) (*Principal, error) {
	token, err := c.storedToken()
	if err != nil {
		return nil, err
	}
	return c.UserWithToken(ctx, token, id)
}

// UserWithToken fetches a user by id using an explicit bearer token.
func (c *Client) UserWithToken(ctx context.Context, token, id string) (*Principal, error) {
	var p Principal
	path := "/api/users/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
