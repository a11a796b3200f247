package keyrunes

import (
	"errors"
	"fmt"
)

// ============================================================================
// Error Kinds
// ============================================================================

// Kind identifies the category of a Keyrunes error. Kinds are stable string
// codes so callers (and the httpx adapter) can map them to protocol statuses
// without string-matching messages.
type Kind string

const (
	// KindAuthentication covers invalid credentials, expired or rejected
	// tokens (upstream 401).
	KindAuthentication Kind = "authentication_error"

	// KindAuthorization covers denied access and failed group checks
	// (upstream 403).
	KindAuthorization Kind = "authorization_error"

	// KindUserNotFound is a 404 whose message refers to a user.
	KindUserNotFound Kind = "user_not_found"

	// KindGroupNotFound is a 404 whose message refers to a group.
	KindGroupNotFound Kind = "group_not_found"

	// KindNetwork covers connect failures, timeouts and canceled requests.
	KindNetwork Kind = "network_error"

	// KindSerialization covers malformed JSON on a success status and local
	// encode failures.
	KindSerialization Kind = "serialization_error"

	// KindHTTP is a generic non-success status not otherwise classified.
	KindHTTP Kind = "http_error"

	// KindInvalidURL reports a bad base address at client construction.
	KindInvalidURL Kind = "invalid_url"

	// KindInvalidToken reports a missing or unusable bearer credential.
	KindInvalidToken Kind = "invalid_token"

	// KindOther is the catch-all for uncategorized failures.
	KindOther Kind = "other"
)

// ============================================================================
// Error type
// ============================================================================

// Error is the typed error surface of the SDK. Every remote, parse and
// validation failure propagates as an *Error; nothing is recovered locally.
type Error struct {
	// Kind is the error category.
	Kind Kind

	// Message is a human-readable description. For HTTP-sourced errors it
	// embeds the originating request URL.
	Message string

	// Status is the upstream HTTP status for HTTP-sourced errors, 0 otherwise.
	Status int

	// URL is the originating request URL for HTTP-sourced errors.
	URL string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindAuthentication:
		return "authentication error: " + e.Message
	case KindAuthorization:
		return "authorization error: " + e.Message
	case KindUserNotFound:
		return "user not found: " + e.Message
	case KindGroupNotFound:
		return "group not found: " + e.Message
	case KindNetwork:
		return "network error: " + e.Message
	case KindSerialization:
		return "serialization error: " + e.Message
	case KindHTTP:
		return "http error: " + e.Message
	case KindInvalidURL:
		return "invalid url: " + e.Message
	case KindInvalidToken:
		return "invalid or missing token"
	default:
		return "error: " + e.Message
	}
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is makes predefined errors usable with errors.Is by comparing kinds.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of err, or KindOther when err is not an *Error.
// A nil err yields the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// ============================================================================
// Predefined errors and constructors
// ============================================================================

// ErrNoCredential is returned by authenticated operations when the session
// token store holds no credential. No network call is made.
var ErrNoCredential = &Error{
	Kind:    KindInvalidToken,
	Message: "no credential available",
}

// ErrMissingBearer is returned by the authentication gate when the inbound
// request carries no Authorization header.
var ErrMissingBearer = &Error{
	Kind:    KindInvalidToken,
	Message: "missing bearer token",
}

// ErrMalformedBearer is returned by the authentication gate when the
// Authorization header does not start with the literal "Bearer " prefix.
var ErrMalformedBearer = &Error{
	Kind:    KindInvalidToken,
	Message: "authorization header is not a bearer token",
}

func invalidURLError(baseURL string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidURL,
		Message: fmt.Sprintf("%q is not an absolute URL", baseURL),
		cause:   cause,
	}
}

func networkError(url string, cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: cause.Error(),
		URL:     url,
		cause:   cause,
	}
}

func serializationError(msg string, cause error) *Error {
	return &Error{
		Kind:    KindSerialization,
		Message: msg,
		cause:   cause,
	}
}
