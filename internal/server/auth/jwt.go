package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every session token.
const TokenTTL = time.Hour

// Claims are the session token claims. Subject carries the account id so a
// verifier can load the account; Identity is the account id followed by the
// username.
type Claims struct {
	jwt.RegisteredClaims
	Identity string `json:"id"`
}

// IssuedToken is a signed session token and its validity window.
type IssuedToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer struct {
	now func() time.Time
}

// NewTokenIssuer returns an HS256 issuer. A nil clock means time.Now.
func NewTokenIssuer(now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{now: now}
}

func (i *TokenIssuer) Issue(account *models.Account, secret string) (IssuedToken, error) {
	if secret == "" {
		return IssuedToken{}, fmt.Errorf("signing secret: %w", common.ErrMissingKey)
	}

	iat := jwt.NewNumericDate(i.now())
	exp := jwt.NewNumericDate(iat.Add(TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
		Identity: account.Identity(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{Token: signed, IssuedAt: iat.Time, ExpiresAt: exp.Time}, nil
}

// Parse verifies the signature and expiry of tokenString under secret.
func (i *TokenIssuer) Parse(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// UnverifiedClaims reads the claims without checking the signature. The
// result only tells the caller which account to load and which login the
// token claims to come from; Parse must still verify it.
func UnverifiedClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing sub or iat", common.ErrInvalidToken)
	}
	return claims, nil
}
