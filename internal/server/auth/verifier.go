package auth

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"golang.org/x/crypto/bcrypt"
)

// VerifierHasher hashes derived secrets for storage. The stored value binds
// the secret to the issuance time of the token it signed, so only the token
// from the latest login matches. The input is reduced to hex(SHA-256) first
// to stay under bcrypt's 72-byte limit.
type VerifierHasher struct {
	cost int
}

func NewVerifierHasher(cost int) *VerifierHasher {
	return &VerifierHasher{cost: cost}
}

func (h *VerifierHasher) Hash(secret string, issuedAt time.Time) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(secret, issuedAt), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash verifier: %w", err)
	}
	return string(b), nil
}

// Matches reports whether hash was produced from secret and issuedAt.
func (h *VerifierHasher) Matches(secret string, issuedAt time.Time, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(secret, issuedAt)) == nil
}

func prehash(secret string, issuedAt time.Time) []byte {
	in := secret + "|" + strconv.FormatInt(issuedAt.Unix(), 10)
	return []byte(hex.EncodeToString(cryptox.MakeVerifier([]byte(in))))
}
