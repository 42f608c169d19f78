package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminEmail = "admin@x.com"

var (
	keysOnce sync.Once
	keys     *Keys
	keysErr  error
)

// testKeys stretches the three test passphrases once per package run.
func testKeys(t *testing.T) *Keys {
	t.Helper()
	keysOnce.Do(func() {
		keys, keysErr = NewKeys("user-passphrase", "admin-passphrase", "transport-passphrase")
	})
	require.NoError(t, keysErr)
	return keys
}

func testDeriver(t *testing.T) *SecretDeriver {
	k := testKeys(t)
	return NewSecretDeriver(k.User, k.Admin, testAdminEmail)
}

const testCost = bcrypt.MinCost
