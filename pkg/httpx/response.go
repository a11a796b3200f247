package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/keyrunes/keyrunes-go/pkg/keyrunes"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteGateError maps a gate error to a protocol-visible rejection:
// authentication failures and missing/invalid tokens are 401 with an RFC
// 6750 WWW-Authenticate challenge, authorization failures are 403, and
// everything else is 500.
func WriteGateError(w http.ResponseWriter, err error) {
	switch keyrunes.KindOf(err) {
	case keyrunes.KindInvalidToken, keyrunes.KindAuthentication:
		writeBearerError(w, err.Error())
	case keyrunes.KindAuthorization:
		WriteJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": desc})
}
