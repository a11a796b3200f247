package keyrunes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

const (
	defaultTimeout = 10 * time.Second

	// HeaderTenant carries the tenant/organization identifier, captured once
	// from the KEYRUNES_ORG environment variable at client construction.
	HeaderTenant = "X-Keyrunes-Org"

	// EnvTenant is the environment variable the tenant header is read from.
	EnvTenant = "KEYRUNES_ORG"
)

// Client issues remote calls to a Keyrunes deployment. A single Client may be
// shared by many goroutines.
//
// Operations come in two flavors: store-backed methods (Login, CurrentUser,
// HasGroup, ...) read the client's TokenStore and suit single-caller usage,
// while the *WithToken variants thread an explicit per-call credential and
// are what the gates use for concurrently handled requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *TokenStore
	limiter    *rate.Limiter
	log        *slog.Logger
	userAgent  string
	tenant     string
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-call timeout. The default is 10 seconds. A call
// that times out fails with a network_error.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a structured logger for outbound call logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRateLimit limits outbound requests to rps requests per second with the
// given burst. Calls block until the limiter admits them; a wait cut short by
// the context fails with a network_error.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New creates a Client for the Keyrunes deployment at baseURL. The address
// must parse as an absolute URL; trailing slashes are stripped. The tenant
// header, if configured, is read from the environment exactly once here.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, invalidURLError(baseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, invalidURLError(baseURL, nil)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      &TokenStore{},
		log:        slog.Default(),
		userAgent:  "keyrunes-go/" + Version,
		tenant:     os.Getenv(EnvTenant),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string { return c.baseURL }

// Store returns the client's session token store.
func (c *Client) Store() *TokenStore { return c.store }

// SetToken stores a bearer token as the current credential, replacing any
// previous one.
func (c *Client) SetToken(token string) {
	c.store.Set(Credential{Token: token})
}

// ClearToken removes the current credential.
func (c *Client) ClearToken() { c.store.Clear() }

// storedToken reads the current credential immediately before a request.
// Returns ErrNoCredential without any network activity when the store is
// empty.
func (c *Client) storedToken() (string, error) {
	cred, ok := c.store.Get()
	if !ok {
		return "", ErrNoCredential
	}
	return cred.Token, nil
}

// ============================================================================
// Request plumbing
// ============================================================================

// doJSON issues a request and classifies the response into v. The token is
// attached as a Bearer credential when non-empty. body, when non-nil, is sent
// as JSON.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return serializationError("encoding request body: "+err.Error(), err)
		}
		reader = bytes.NewReader(payload)
	}

	requestURL := c.baseURL + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(requestURL, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return &Error{Kind: KindOther, Message: "building request: " + err.Error(), URL: requestURL, cause: err}
	}

	reqID := ulid.Make().String()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.tenant != "" {
		req.Header.Set(HeaderTenant, c.tenant)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("keyrunes request failed",
			"req_id", reqID, "method", method, "path", path, "err", err)
		return networkError(requestURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(requestURL, err)
	}

	c.log.Debug("keyrunes request",
		"req_id", reqID, "method", method, "path", path, "status", resp.StatusCode)

	return classify(resp.StatusCode, respBody, requestURL, v)
}
