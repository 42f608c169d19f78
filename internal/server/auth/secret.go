package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
)

// Variant selects how many layers wrap a signing secret.
type Variant int

const (
	// Standard secrets are the identity sealed once under the user key.
	Standard Variant = iota
	// Privileged secrets are a Standard secret sealed again under the admin key.
	Privileged
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Privileged:
		return "privileged"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// SecretDeriver produces the per-login signing secret from an account
// identity. Derivation is deterministic: the same identity, variant and keys
// always yield the same secret, so it can be recomputed when a token is
// checked.
type SecretDeriver struct {
	user       *cryptox.Key
	admin      *cryptox.Key
	adminEmail string
}

func NewSecretDeriver(user, admin *cryptox.Key, adminEmail string) *SecretDeriver {
	return &SecretDeriver{user: user, admin: admin, adminEmail: adminEmail}
}

// VariantFor returns Privileged only for the configured admin email.
func (d *SecretDeriver) VariantFor(email string) Variant {
	if d.adminEmail != "" && email == d.adminEmail {
		return Privileged
	}
	return Standard
}

func (d *SecretDeriver) Derive(identity string, v Variant) (string, error) {
	if d.user == nil {
		return "", fmt.Errorf("user key: %w", common.ErrMissingKey)
	}

	secret, err := wrap(d.user, identity)
	if err != nil {
		return "", fmt.Errorf("user layer: %w", err)
	}

	switch v {
	case Standard:
		return secret, nil
	case Privileged:
		if d.admin == nil {
			return "", fmt.Errorf("admin key: %w", common.ErrMissingKey)
		}
		secret, err = wrap(d.admin, secret)
		if err != nil {
			return "", fmt.Errorf("admin layer: %w", err)
		}
		return secret, nil
	default:
		return "", fmt.Errorf("unknown variant %v", v)
	}
}

func wrap(k *cryptox.Key, plaintext string) (string, error) {
	sealed, err := k.SealDeterministic([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
