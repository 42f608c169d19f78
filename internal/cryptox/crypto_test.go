package cryptox

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	passphrase := []byte("user-passphrase")
	salt := []byte("gophauth/user-secret/v1")

	key1 := DeriveMasterKey(passphrase, salt)
	key2 := DeriveMasterKey(passphrase, salt)

	require.Len(t, key1, keySize)
	assert.Equal(t, key1, key2, "restarts must stretch to the same key")
	assert.NotEqual(t, make([]byte, keySize), key1)
	assert.NotEqual(t, DeriveMasterKey([]byte("admin-passphrase"), salt), key1)
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestMakeVerifier(t *testing.T) {
	want := sha256.Sum256([]byte("abc"))
	assert.Equal(t, want[:], MakeVerifier([]byte("abc")))
}

func newTestKey(t *testing.T, pass string) *Key {
	t.Helper()
	k, err := NewKey([]byte(pass), []byte("test-salt"))
	require.NoError(t, err)
	return k
}

func TestNewKey_EmptyPassphrase(t *testing.T) {
	_, err := NewKey(nil, []byte("salt"))
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestSealOpen_RoundTripAndRandomized(t *testing.T) {
	k := newTestKey(t, "transport")

	a, err := k.Seal([]byte("payload"))
	require.NoError(t, err)
	b, err := k.Seal([]byte("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "random nonces must differ")

	got, err := k.Open(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestSealDeterministic_Stable(t *testing.T) {
	k := newTestKey(t, "server")

	a, err := k.SealDeterministic([]byte("id-1alice"))
	require.NoError(t, err)
	b, err := k.SealDeterministic([]byte("id-1alice"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := k.SealDeterministic([]byte("id-2bob"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	again := newTestKey(t, "server")
	d, err := again.SealDeterministic([]byte("id-1alice"))
	require.NoError(t, err)
	assert.Equal(t, a, d, "same passphrase and salt rebuild the same key")

	plain, err := k.OpenDeterministic(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("id-1alice"), plain)
}

func TestOpen_WrongKeyAndTampering(t *testing.T) {
	k := newTestKey(t, "one")
	other := newTestKey(t, "two")

	sealed, err := k.SealDeterministic([]byte("data"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = k.OpenDeterministic(tampered)
	assert.Error(t, err)

	_, err = k.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrCiphertextShort)
}

func TestOpenDeterministic_RejectsRandomNonce(t *testing.T) {
	k := newTestKey(t, "key")

	sealed, err := k.Seal([]byte("data"))
	require.NoError(t, err)

	_, err = k.OpenDeterministic(sealed)
	assert.ErrorIs(t, err, ErrNonceMismatch)
}
