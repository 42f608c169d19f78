package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// Authenticator checks encrypted session tokens presented on private routes.
type Authenticator struct {
	users     users.Repository
	deriver   *SecretDeriver
	verifier  *VerifierHasher
	tokens    *TokenIssuer
	transport *TransportEncryptor
}

func NewAuthenticator(
	repo users.Repository,
	deriver *SecretDeriver,
	verifier *VerifierHasher,
	tokens *TokenIssuer,
	transport *TransportEncryptor,
) *Authenticator {
	return &Authenticator{users: repo, deriver: deriver, verifier: verifier, tokens: tokens, transport: transport}
}

// Authenticate returns the account a token was issued to. The secret is
// re-derived for that account and, together with the token's issuance time,
// must match the stored verifier, so only the token from the most recent
// login is accepted. Every failure wraps common.ErrorUnauthorized.
func (a *Authenticator) Authenticate(ctx context.Context, encryptedToken string) (*models.Account, error) {
	if encryptedToken == "" {
		return nil, fmt.Errorf("%w: no token", common.ErrorUnauthorized)
	}

	token, err := a.transport.Decrypt(encryptedToken)
	if err != nil {
		return nil, fmt.Errorf("%w: transport: %v", common.ErrorUnauthorized, err)
	}

	unverified, err := UnverifiedClaims(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	account, err := a.users.FindByID(ctx, unverified.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup: %v", common.ErrorUnauthorized, err)
	}

	secret, err := a.deriver.Derive(account.Identity(), a.deriver.VariantFor(account.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: derive: %v", common.ErrorUnauthorized, err)
	}

	if !a.verifier.Matches(secret, unverified.IssuedAt.Time, account.SecretVerifierHash) {
		return nil, fmt.Errorf("%w: stale secret", common.ErrorUnauthorized)
	}

	claims, err := a.tokens.Parse(token, secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	if claims.Identity != account.Identity() || claims.Subject != account.ID {
		return nil, fmt.Errorf("%w: identity mismatch", common.ErrorUnauthorized)
	}

	return account, nil
}
