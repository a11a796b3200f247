package keyrunes

import (
	"encoding/json"
	"errors"
	"time"
)

// ============================================================================
// Principal
// ============================================================================

// Principal is the identity resolved by the Keyrunes service for a given
// credential. A fresh Principal is built on every gate invocation; it is
// never cached across requests.
//
// The Groups field is informational only. Authorization decisions always use
// a live group-membership query (see Gate.RequireGroup), never this set.
type Principal struct {
	// ID is the canonical user identifier.
	ID string `json:"id"`

	// Username is the user's login name.
	Username string `json:"username"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Groups lists the group identifiers the user belonged to at resolution
	// time. Order is not significant.
	Groups []string `json:"groups"`

	// CreatedAt is the account creation time, when the service reports it.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the last account update time, when the service reports it.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// principalWire is the raw upstream user shape. The service has emitted three
// different identifier fields over time; precedence is id, then external_id,
// then the numeric user_id.
type principalWire struct {
	ID         string      `json:"id"`
	UserID     json.Number `json:"user_id"`
	ExternalID string      `json:"external_id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Groups     []string    `json:"groups"`
	CreatedAt  *time.Time  `json:"created_at"`
	UpdatedAt  *time.Time  `json:"updated_at"`
}

// UnmarshalJSON canonicalizes the legacy identifier variants into Principal.
// No caller ever sees the raw wire shape.
func (p *Principal) UnmarshalJSON(data []byte) error {
	var w principalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := w.ID
	if id == "" {
		id = w.ExternalID
	}
	if id == "" && w.UserID != "" {
		id = w.UserID.String()
	}
	if id == "" {
		id = "unknown"
	}

	*p = Principal{
		ID:        id,
		Username:  w.Username,
		Email:     w.Email,
		Groups:    w.Groups,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	return nil
}

// ============================================================================
// Credential
// ============================================================================

// Credential is an opaque bearer token plus optional metadata. The SDK never
// interprets the token or its metadata; expiry and refresh handling belong to
// the caller.
type Credential struct {
	// Token is the bearer token sent on authenticated requests.
	Token string `json:"token"`

	// TokenType is the token type as reported by the service, e.g. "bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the token lifetime in seconds, when reported.
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// RefreshToken is the refresh token, when issued.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the absolute expiry time, when reported.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type credentialWire struct {
	Token        string     `json:"token"`
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// errNoTokenField reports a credential payload carrying neither the current
// "token" field nor the legacy "access_token" field.
var errNoTokenField = errors.New("credential payload has no token or access_token field")

// UnmarshalJSON accepts both the current ("token") and legacy
// ("access_token") credential shapes and canonicalizes them.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var w credentialWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	token := w.Token
	if token == "" {
		token = w.AccessToken
	}
	if token == "" {
		return errNoTokenField
	}

	*c = Credential{
		Token:        token,
		TokenType:    w.TokenType,
		ExpiresIn:    w.ExpiresIn,
		RefreshToken: w.RefreshToken,
		ExpiresAt:    w.ExpiresAt,
	}
	return nil
}

// ============================================================================
// Group membership
// ============================================================================

// GroupCheck is the result of a group-membership query. Results are never
// cached; every authorization decision performs a live query.
type GroupCheck struct {
	// UserID is the queried user identifier, when echoed by the service.
	UserID string `json:"user_id,omitempty"`

	// GroupID is the queried group identifier, when echoed by the service.
	GroupID string `json:"group_id,omitempty"`

	// HasGroup reports whether the user belongs to the group.
	HasGroup bool `json:"has_group"`
}

type groupCheckWire struct {
	UserID    string `json:"user_id"`
	GroupID   string `json:"group_id"`
	HasGroup  *bool  `json:"has_group"`
	HasAccess *bool  `json:"has_access"`
}

// errNoMembershipField reports a membership payload with neither boolean
// field name the service has used.
var errNoMembershipField = errors.New("membership payload has no has_group or has_access field")

// UnmarshalJSON accepts both boolean field names ("has_group", "has_access")
// the service has used for membership results.
func (g *GroupCheck) UnmarshalJSON(data []byte) error {
	var w groupCheckWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	has := w.HasGroup
	if has == nil {
		has = w.HasAccess
	}
	if has == nil {
		return errNoMembershipField
	}

	*g = GroupCheck{
		UserID:   w.UserID,
		GroupID:  w.GroupID,
		HasGroup: *has,
	}
	return nil
}

// ============================================================================
// Request payloads
// ============================================================================

type loginRequest struct {
	Identity  string `json:"identity"`
	Password  string `json:"password"`
	Namespace string `json:"namespace,omitempty"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminKey  string `json:"admin_key,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// registerResponse is the registration envelope. The embedded token, if any,
// is discarded: registration never writes the token store.
type registerResponse struct {
	User                   Principal `json:"user"`
	Token                  string    `json:"token"`
	RequiresPasswordChange bool      `json:"requires_password_change"`
}
