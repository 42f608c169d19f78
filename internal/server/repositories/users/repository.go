// Package users is the credential store: lookup, creation and the per-login
// secret verifier update for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the narrow store contract the auth flows consume.
//
// Lookups return common.ErrorNotFound when nothing matches. Create returns
// common.ErrorAlreadyExists when the username or email is taken; the store
// enforces that on its own, independent of any lookups the caller did first.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateSecretVerifier(ctx context.Context, id string, hash string) error
}
