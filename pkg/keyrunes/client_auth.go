package keyrunes

import (
	"context"
	"net/http"
)

// ============================================================================
// Login
// ============================================================================

// Login authenticates with an identity (username or email) and password and
// returns the issued credential. namespace is optional and omitted from the
// request when empty.
//
// On success the credential is also written to the client's token store, so
// subsequent store-backed operations are authenticated without further setup.
func (c *Client) Login(ctx context.Context, identity, password, namespace string) (*Credential, error) {
	req := loginRequest{Identity: identity, Password: password, Namespace: namespace}

	var cred Credential
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", "", req, &cred); err != nil {
		return nil, err
	}

	c.store.Set(cred)
	return &cred, nil
}

// ============================================================================
// Registration
// ============================================================================

// Register creates a new user and returns the resulting Principal. Any token
// embedded in the registration response is discarded; registration never
// writes the token store.
func (c *Client) Register(ctx context.Context, username, email, password, namespace string) (*Principal, error) {
	return c.register(ctx, registerRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		Namespace: namespace,
	})
}

// RegisterAdmin creates a new administrator using the deployment's admin key.
// Like Register, it never writes the token store.
func (c *Client) RegisterAdmin(ctx context.Context, username, email, password, adminKey, namespace string) (*Principal, error) {
	return c.register(ctx, registerRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		AdminKey:  adminKey,
		Namespace: namespace,
	})
}

func (c *Client) register(ctx context.Context, req registerRequest) (*Principal, error) {
	var resp registerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
