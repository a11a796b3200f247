package keyrunes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid url", func(t *testing.T) {
		client, err := New("https://keyrunes.example.com")
		require.NoError(t, err)
		require.Equal(t, "https://keyrunes.example.com", client.BaseURL())
	})

	t.Run("trailing slash stripped", func(t *testing.T) {
		client, err := New("https://keyrunes.example.com/")
		require.NoError(t, err)
		require.Equal(t, "https://keyrunes.example.com", client.BaseURL())
	})

	t.Run("relative url rejected", func(t *testing.T) {
		_, err := New("not-a-url")
		require.Error(t, err)
		require.Equal(t, KindInvalidURL, KindOf(err))
	})

	t.Run("missing host rejected", func(t *testing.T) {
		_, err := New("https://")
		require.Error(t, err)
		require.Equal(t, KindInvalidURL, KindOf(err))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Identity string `json:"identity"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "u@example.com", req.Identity)
		require.Equal(t, "pw", req.Password)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":123,"username":"john","email":"john@example.com","groups":["users"]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	cred, err := client.Login(context.Background(), "u@example.com", "pw", "")
	require.NoError(t, err)
	require.Equal(t, "abc", cred.Token)

	// Login writes the token store, so the next call authenticates without
	// any explicit set.
	stored, ok := client.Store().Get()
	require.True(t, ok)
	require.Equal(t, "abc", stored.Token)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "123", user.ID)
	require.Equal(t, "john", user.Username)
}

func TestLoginFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "u@example.com", "wrong", "")
	require.Error(t, err)
	require.Equal(t, KindAuthentication, KindOf(err))

	// A failed login must not leave a credential behind.
	_, ok := client.Store().Get()
	require.False(t, ok)
}

func TestAuthenticatedOpsWithoutCredential(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = client.CurrentUser(ctx)
	require.ErrorIs(t, err, ErrNoCredential)

	_, err = client.User(ctx, "u1")
	require.ErrorIs(t, err, ErrNoCredential)

	_, err = client.HasGroup(ctx, "u1", "g1")
	require.ErrorIs(t, err, ErrNoCredential)

	require.Zero(t, calls.Load(), "no network call may be made without a credential")
}

func TestRegisterNeverWritesStore(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user":{"user_id":123,"username":"john","email":"john@example.com","groups":[]},"token":"embedded","requires_password_change":false}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	user, err := client.Register(context.Background(), "john", "john@example.com", "password123", "")
	require.NoError(t, err)
	require.Equal(t, "123", user.ID)
	require.Equal(t, "john", user.Username)
	require.Equal(t, "john@example.com", user.Email)

	// The embedded token in the registration response is discarded.
	_, ok := client.Store().Get()
	require.False(t, ok)
}

func TestRegisterAdmin(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "super-secret", req["admin_key"])
		require.Equal(t, "staging", req["namespace"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user":{"id":"adm-1","username":"root","email":"root@example.com"}}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	user, err := client.RegisterAdmin(context.Background(), "root", "root@example.com", "pw123456", "super-secret", "staging")
	require.NoError(t, err)
	require.Equal(t, "adm-1", user.ID)
}

func TestDefaultHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "keyrunes-go/"+Version, r.Header.Get("User-Agent"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "u", "p", "")
	require.NoError(t, err)
}

func TestTenantHeaderFromEnvironment(t *testing.T) {
	t.Setenv(EnvTenant, "acme")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "acme", r.Header.Get(HeaderTenant))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "u", "p", "")
	require.NoError(t, err)
}

func TestHasGroupFieldVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want bool
	}{
		{"has_group true", `{"user_id":"u1","group_id":"g1","has_group":true}`, true},
		{"has_group false", `{"user_id":"u1","group_id":"g1","has_group":false}`, false},
		{"has_access true", `{"has_access":true}`, true},
		{"has_access false", `{"has_access":false}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/users/u1/groups/g1", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client, err := New(srv.URL)
			require.NoError(t, err)
			client.SetToken("tok")

			has, err := client.HasGroup(context.Background(), "u1", "g1")
			require.NoError(t, err)
			require.Equal(t, tc.want, has)
		})
	}
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "u", "p", "")
	require.Error(t, err)
	require.Equal(t, KindNetwork, KindOf(err))
}

func TestTimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "u", "p", "")
	require.Error(t, err)
	require.Equal(t, KindNetwork, KindOf(err))
}

func TestRateLimitCanceledWait(t *testing.T) {
	t.Parallel()

	// Burst 0 means the limiter can never admit the call; the canceled
	// context must surface as a network error before any request is built.
	client, err := New("https://keyrunes.example.com", WithRateLimit(1, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Login(ctx, "u", "p", "")
	require.Error(t, err)
	require.Equal(t, KindNetwork, KindOf(err))
}
