package auth

import (
	"encoding/base64"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportEncryptor_RoundTrip(t *testing.T) {
	e := NewTransportEncryptor(testKeys(t).Transport)

	a, err := e.Encrypt("header.payload.sig")
	require.NoError(t, err)
	b, err := e.Encrypt("header.payload.sig")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per call")
	assert.NotContains(t, a, "payload")

	got, err := e.Decrypt(a)
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", got)
}

func TestTransportEncryptor_Errors(t *testing.T) {
	e := NewTransportEncryptor(testKeys(t).Transport)

	_, err := e.Decrypt("%%%")
	assert.Error(t, err)

	_, err = e.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	other := NewTransportEncryptor(testKeys(t).User)
	sealed, err := other.Encrypt("tok")
	require.NoError(t, err)
	_, err = e.Decrypt(sealed)
	assert.Error(t, err, "wrong key")
}

func TestTransportEncryptor_MissingKey(t *testing.T) {
	e := NewTransportEncryptor(nil)

	_, err := e.Encrypt("tok")
	assert.ErrorIs(t, err, common.ErrMissingKey)

	_, err = e.Decrypt("dG9r")
	assert.ErrorIs(t, err, common.ErrMissingKey)
}
