package keyrunes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path, "correct horse battery staple")

	cred := Credential{Token: "abc", TokenType: "bearer", RefreshToken: "r1"}
	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, cred, loaded)

	// Credentials are never written in the clear.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "abc")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, NewFileStore(path, "right").Save(Credential{Token: "abc"}))

	_, err := NewFileStore(path, "wrong").Load()
	require.Error(t, err)
}

func TestFileStoreMissing(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "absent"), "pw")

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	// Deleting an absent session is fine.
	require.NoError(t, store.Delete())
}

func TestFileStoreDelete(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path, "pw")

	require.NoError(t, store.Save(Credential{Token: "abc"}))
	require.NoError(t, store.Delete())

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSession)
}
