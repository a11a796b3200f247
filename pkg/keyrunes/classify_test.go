package keyrunes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testURL = "https://keyrunes.example.com/api/me"

func classifyErr(t *testing.T, status int, body string) *Error {
	t.Helper()

	err := classify(status, []byte(body), testURL, nil)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	return e
}

func TestClassifyStatusMapping(t *testing.T) {
	t.Parallel()

	t.Run("401 authentication", func(t *testing.T) {
		e := classifyErr(t, 401, `{"message":"Invalid token"}`)
		require.Equal(t, KindAuthentication, e.Kind)
		require.Equal(t, 401, e.Status)
		require.Contains(t, e.Message, "Invalid token")
	})

	t.Run("403 authorization", func(t *testing.T) {
		e := classifyErr(t, 403, `{"message":"Access denied"}`)
		require.Equal(t, KindAuthorization, e.Kind)
	})

	t.Run("404 user", func(t *testing.T) {
		e := classifyErr(t, 404, `{"message":"User does not exist"}`)
		require.Equal(t, KindUserNotFound, e.Kind)
	})

	t.Run("404 group", func(t *testing.T) {
		e := classifyErr(t, 404, `{"message":"GROUP missing"}`)
		require.Equal(t, KindGroupNotFound, e.Kind)
	})

	t.Run("404 other", func(t *testing.T) {
		e := classifyErr(t, 404, `{"message":"no such thing"}`)
		require.Equal(t, KindOther, e.Kind)
		require.Contains(t, e.Message, "resource not found")
	})

	t.Run("500 generic http", func(t *testing.T) {
		e := classifyErr(t, 500, `{"message":"boom"}`)
		require.Equal(t, KindHTTP, e.Kind)
		require.Equal(t, 500, e.Status)
		require.Contains(t, e.Message, "HTTP 500")
	})
}

func TestClassifyHTMLBody(t *testing.T) {
	t.Parallel()

	// A leading '<' after trimming means the request hit something that is
	// not the API, even if the rest happens to parse as JSON elsewhere.
	bodies := []string{
		"<html><body>404 Not Found</body></html>",
		"  \n\t<!DOCTYPE html><html></html>",
	}

	for _, body := range bodies {
		e := classifyErr(t, 502, body)
		require.Equal(t, KindHTTP, e.Kind)
		require.Contains(t, e.Message, "502")
		require.Contains(t, e.Message, testURL)
		require.Contains(t, e.Message, "HTML")
	}
}

func TestClassifyMessageExtraction(t *testing.T) {
	t.Parallel()

	t.Run("message field preferred", func(t *testing.T) {
		e := classifyErr(t, 400, `{"message":"from message","error":"from error"}`)
		require.Contains(t, e.Message, "from message")
		require.NotContains(t, e.Message, "from error")
	})

	t.Run("error field fallback", func(t *testing.T) {
		e := classifyErr(t, 400, `{"error":"from error"}`)
		require.Contains(t, e.Message, "from error")
	})

	t.Run("raw body fallback", func(t *testing.T) {
		e := classifyErr(t, 400, "plain text failure")
		require.Contains(t, e.Message, "plain text failure")
	})

	t.Run("raw body truncated to 200", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		e := classifyErr(t, 400, long)
		require.Contains(t, e.Message, strings.Repeat("x", 200)+"...")
		require.NotContains(t, e.Message, strings.Repeat("x", 201))
	})

	t.Run("request url appended", func(t *testing.T) {
		e := classifyErr(t, 400, `{"message":"bad"}`)
		require.Contains(t, e.Message, fmt.Sprintf("(URL: %s)", testURL))
	})
}

func TestClassifySuccess(t *testing.T) {
	t.Parallel()

	t.Run("2xx decodes payload", func(t *testing.T) {
		var cred Credential
		err := classify(200, []byte(`{"token":"abc"}`), testURL, &cred)
		require.NoError(t, err)
		require.Equal(t, "abc", cred.Token)
	})

	t.Run("2xx with nil target", func(t *testing.T) {
		require.NoError(t, classify(204, nil, testURL, nil))
	})

	t.Run("malformed body on success is serialization error", func(t *testing.T) {
		var cred Credential
		err := classify(200, []byte(`{"token":`), testURL, &cred)
		require.Error(t, err)
		require.Equal(t, KindSerialization, KindOf(err))
	})

	t.Run("missing token field on success is serialization error", func(t *testing.T) {
		var cred Credential
		err := classify(200, []byte(`{"unexpected":true}`), testURL, &cred)
		require.Error(t, err)
		require.Equal(t, KindSerialization, KindOf(err))
	})
}
