package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealRoundTrip(t *testing.T) {
	t.Parallel()

	passphrase := []byte("correct horse battery staple")
	plaintext := []byte(`{"token":"abc"}`)

	sealed, err := Seal(passphrase, plaintext)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "abc")

	opened, err := Open(passphrase, sealed)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestSealFreshSaltPerCall(t *testing.T) {
	t.Parallel()

	passphrase := []byte("pw")
	a, err := Seal(passphrase, []byte("data"))
	require.NoError(t, err)
	b, err := Seal(passphrase, []byte("data"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestOpenWrongPassphrase(t *testing.T) {
	t.Parallel()

	sealed, err := Seal([]byte("right"), []byte("data"))
	require.NoError(t, err)

	_, err = Open([]byte("wrong"), sealed)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestOpenTruncated(t *testing.T) {
	t.Parallel()

	sealed, err := Seal([]byte("pw"), []byte("data"))
	require.NoError(t, err)

	for _, n := range []int{0, saltLength - 1, saltLength + 5} {
		_, err := Open([]byte("pw"), sealed[:n])
		require.ErrorIs(t, err, ErrCorrupt)
	}
}

func TestOpenTampered(t *testing.T) {
	t.Parallel()

	sealed, err := Seal([]byte("pw"), []byte("data"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open([]byte("pw"), sealed)
	require.ErrorIs(t, err, ErrCorrupt)
}
