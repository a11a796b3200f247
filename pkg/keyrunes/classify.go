package keyrunes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// maxRawBody caps how much of an unparseable error body ends up in a message.
const maxRawBody = 200

// classify turns a raw (status, body, requestURL) triple into a decoded
// payload or a typed error. It is the single place upstream responses are
// interpreted: the service's error envelope is not uniform (HTML pages on
// some failures, differing JSON field names on others), so every caller goes
// through this one surface.
//
// On a success status the body is decoded into v; a decode failure there is a
// serialization_error, never swallowed. v may be nil for operations without a
// response payload.
func classify(status int, body []byte, requestURL string, v any) error {
	if status >= 200 && status < 300 {
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(body, v); err != nil {
			e := serializationError(
				fmt.Sprintf("decoding response from %s: %v", requestURL, err), err)
			e.Status = status
			e.URL = requestURL
			return e
		}
		return nil
	}

	msg := errorMessage(status, body, requestURL)

	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, Message: msg, Status: status, URL: requestURL}
	case http.StatusForbidden:
		return &Error{Kind: KindAuthorization, Message: msg, Status: status, URL: requestURL}
	case http.StatusNotFound:
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "user"):
			return &Error{Kind: KindUserNotFound, Message: msg, Status: status, URL: requestURL}
		case strings.Contains(lower, "group"):
			return &Error{Kind: KindGroupNotFound, Message: msg, Status: status, URL: requestURL}
		default:
			return &Error{Kind: KindOther, Message: "resource not found: " + msg, Status: status, URL: requestURL}
		}
	default:
		return &Error{
			Kind:    KindHTTP,
			Message: fmt.Sprintf("HTTP %d: %s", status, msg),
			Status:  status,
			URL:     requestURL,
		}
	}
}

// errorMessage assembles a human-readable message for a non-success response.
func errorMessage(status int, body []byte, requestURL string) string {
	// HTML means the request never reached the API (misrouted path, proxy
	// error page). Surface the status and the URL that was tried.
	if strings.HasPrefix(strings.TrimLeft(string(body), " \t\r\n"), "<") {
		return fmt.Sprintf(
			"HTTP %d - received HTML response (endpoint may not exist or path is incorrect). Tried: %s",
			status, requestURL)
	}

	return apiMessage(body) + " (URL: " + requestURL + ")"
}

// apiMessage extracts a message from a JSON error body, preferring the
// "message" field, then "error", then the raw body truncated to maxRawBody.
func apiMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		raw := string(body)
		if len(raw) > maxRawBody {
			return raw[:maxRawBody] + "..."
		}
		return raw
	}

	if m, ok := payload["message"].(string); ok && m != "" {
		return m
	}
	if m, ok := payload["error"].(string); ok && m != "" {
		return m
	}
	return string(body)
}
