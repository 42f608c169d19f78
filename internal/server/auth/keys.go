package auth

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
)

// Per-purpose salts keep the three configured passphrases in separate key
// spaces even if an operator reuses one value.
var (
	userKeySalt      = []byte("gophauth/user-secret/v1")
	adminKeySalt     = []byte("gophauth/admin-secret/v1")
	transportKeySalt = []byte("gophauth/transport/v1")
)

// Keys are the stretched server keys, built once at startup.
type Keys struct {
	User      *cryptox.Key
	Admin     *cryptox.Key
	Transport *cryptox.Key
}

func NewKeys(userSecret, adminSecret, transportSecret string) (*Keys, error) {
	user, err := newKey("user secret key", userSecret, userKeySalt)
	if err != nil {
		return nil, err
	}
	admin, err := newKey("admin secret key", adminSecret, adminKeySalt)
	if err != nil {
		return nil, err
	}
	transport, err := newKey("server encryption key", transportSecret, transportKeySalt)
	if err != nil {
		return nil, err
	}
	return &Keys{User: user, Admin: admin, Transport: transport}, nil
}

func newKey(name, passphrase string, salt []byte) (*cryptox.Key, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%s: %w", name, common.ErrMissingKey)
	}
	k, err := cryptox.NewKey([]byte(passphrase), salt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return k, nil
}
