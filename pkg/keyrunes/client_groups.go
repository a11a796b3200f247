package keyrunes

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Group membership
// ============================================================================

// CheckGroup queries whether a user belongs to a group, using the credential
// in the token store. The result is never cached.
func (c *Client) CheckGroup(ctx context.Context, userID, groupID string) (*GroupCheck, error) {
	token, err := c.storedToken()
	if err != nil {
		return nil, err
	}
	return c.CheckGroupWithToken(ctx, token, userID, groupID)
}

// CheckGroupWithToken queries group membership using an explicit bearer
// token. This is the variant the authorization gate uses.
func (c *Client) CheckGroupWithToken(ctx context.Context, token, userID, groupID string) (*GroupCheck, error) {
	var check GroupCheck
	path := "/api/users/" + url.PathEscape(userID) + "/groups/" + url.PathEscape(groupID)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// HasGroup reports whether a user belongs to a group, using the credential in
// the token store.
func (c *Client) HasGroup(ctx context.Context, userID, groupID string) (bool, error) {
	check, err := c.CheckGroup(ctx, userID, groupID)
	if err != nil {
		return false, err
	}
	return check.HasGroup, nil
}

// HasGroupWithToken reports group membership using an explicit bearer token.
func (c *Client) HasGroupWithToken(ctx context.Context, token, userID, groupID string) (bool, error) {
	check, err := c.CheckGroupWithToken(ctx, token, userID, groupID)
	if err != nil {
		return false, err
	}
	return check.HasGroup, nil
}
