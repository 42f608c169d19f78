package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
)

// TransportEncryptor wraps session tokens before they leave the server.
// Output is base64(nonce||ciphertext) with a fresh random nonce per call.
type TransportEncryptor struct {
	key *cryptox.Key
}

func NewTransportEncryptor(key *cryptox.Key) *TransportEncryptor {
	return &TransportEncryptor{key: key}
}

func (e *TransportEncryptor) Encrypt(token string) (string, error) {
	if e.key == nil {
		return "", fmt.Errorf("transport key: %w", common.ErrMissingKey)
	}
	sealed, err := e.key.Seal([]byte(token))
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *TransportEncryptor) Decrypt(encoded string) (string, error) {
	if e.key == nil {
		return "", fmt.Errorf("transport key: %w", common.ErrMissingKey)
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	token, err := e.key.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(token), nil
}
