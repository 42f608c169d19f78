// Package cryptox holds the symmetric primitives used by the server: key
// stretching for configured passphrases, AES-256-GCM sealing with either a
// random or a synthetic (deterministic) nonce, and SHA-256 verifiers.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
)

var (
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrCiphertextShort = errors.New("ciphertext too short")
	ErrNonceMismatch   = errors.New("synthetic nonce mismatch")
)

// MakeVerifier returns the SHA-256 digest of secret.
func MakeVerifier(secret []byte) []byte {
	hash := sha256.Sum256(secret)
	return hash[:]
}

// DeriveMasterKey stretches password into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// Key is an AES-256-GCM key paired with an HMAC key used to compute
// synthetic nonces. Both halves come from one stretched passphrase.
type Key struct {
	aead cipher.AEAD
	mac  []byte
}

// NewKey stretches passphrase with argon2id under salt and splits the
// result into an encryption key and a MAC key with HKDF-SHA256. Call it once
// at startup; the argon2 step is slow.
func NewKey(passphrase, salt []byte) (*Key, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	master := DeriveMasterKey(passphrase, salt)
	defer wipe(master)

	kdf := hkdf.New(sha256.New, master, salt, nil)
	encKey := make([]byte, keySize)
	macKey := make([]byte, keySize)
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, fmt.Errorf("hkdf enc key: %w", err)
	}
	if _, err := io.ReadFull(kdf, macKey); err != nil {
		return nil, fmt.Errorf("hkdf mac key: %w", err)
	}
	defer wipe(encKey)

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Key{aead: aead, mac: macKey}, nil
}

// Seal encrypts plaintext under a fresh random nonce. Output is nonce||ct.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return k.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal and SealDeterministic.
func (k *Key) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+k.aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	return k.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
}

// SealDeterministic encrypts plaintext under a nonce derived from the
// plaintext itself (HMAC-SHA256 truncated to 12 bytes), so equal inputs under
// the same key produce byte-identical output. Output is nonce||ct.
func (k *Key) SealDeterministic(plaintext []byte) ([]byte, error) {
	nonce := k.syntheticNonce(plaintext)
	return k.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenDeterministic decrypts and re-checks the synthetic nonce.
func (k *Key) OpenDeterministic(sealed []byte) ([]byte, error) {
	plaintext, err := k.Open(sealed)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(sealed[:nonceSize], k.syntheticNonce(plaintext)) != 1 {
		return nil, ErrNonceMismatch
	}
	return plaintext, nil
}

func (k *Key) syntheticNonce(plaintext []byte) []byte {
	m := hmac.New(sha256.New, k.mac)
	m.Write(plaintext)
	nonce := make([]byte, nonceSize)
	copy(nonce, m.Sum(nil))
	return nonce
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
